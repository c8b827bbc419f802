package main

import (
	"context"

	scimark "github.com/alnah/go-scimark"
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input scimark.Input) (*scimark.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*scimark.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// converterPool adapts scimark.ConverterPool to Pool.
type converterPool struct {
	pool *scimark.ConverterPool
}

var _ Pool = (*converterPool)(nil)

// newConverterPool creates a scimark.ConverterPool of the given size.
func newConverterPool(size int, opts ...scimark.Option) (Pool, error) {
	p, err := scimark.NewConverterPool(size, opts...)
	if err != nil {
		return nil, err
	}
	return &converterPool{pool: p}, nil
}

func (p *converterPool) Acquire() (CLIConverter, error) {
	c, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (p *converterPool) Release(c CLIConverter) {
	if conv, ok := c.(*scimark.Converter); ok {
		p.pool.Release(conv)
	}
}

func (p *converterPool) Size() int    { return p.pool.Size() }
func (p *converterPool) Close() error { return p.pool.Close() }
