// Package assets provides the stylesheets used for standalone HTML and PDF
// output.
//
// # Loaders
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled into the binary
//	    ├── FilesystemLoader  - styles from a directory on disk
//	    └── Resolver          - custom directory first, embedded as fallback
//
// A custom directory holds one file per style:
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// # Security
//
// Style names are validated before use, and FilesystemLoader resolves
// symlinks and refuses paths outside its base directory.
package assets
