package parser

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	apperrors "github.com/compile-report/pkg/errors"
)

// Element is a start tag together with its source position.
type Element struct {
	Name  string
	Line  int
	attrs []xml.Attr
}

// Attr returns the value of an optional attribute.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Require returns the value of a required attribute.
func (e Element) Require(name string) (string, error) {
	v, ok := e.Attr(name)
	if !ok {
		return "", e.Errorf("missing required attribute %q", name)
	}
	return v, nil
}

// RequireInt decodes a required integer attribute.
func (e Element) RequireInt(name string) (int, error) {
	v, err := e.Require(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, e.Errorf("attribute %q is not an integer: %q", name, v)
	}
	return n, nil
}

// RequireInt64 decodes a required 64-bit integer attribute.
func (e Element) RequireInt64(name string) (int64, error) {
	v, err := e.Require(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, e.Errorf("attribute %q is not an integer: %q", name, v)
	}
	return n, nil
}

// Errorf returns a FormatError located at this element.
func (e Element) Errorf(format string, args ...interface{}) error {
	return apperrors.FormatErrorf("line %d: <%s>: %s", e.Line, e.Name, fmt.Sprintf(format, args...))
}

// Handler receives the elements of a document in order.
type Handler interface {
	StartElement(el Element) error
	EndElement(name string) error
}

// Walk decodes r token by token and feeds start and end elements to h.
// It stops at the first error from the decoder or from h, and checks ctx
// before every token.
func Walk(ctx context.Context, r io.Reader, h Handler) error {
	dec := xml.NewDecoder(r)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			line, _ := dec.InputPos()
			return apperrors.WrapFormat(err, "line %d: malformed XML", line)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			if err := h.StartElement(Element{Name: t.Name.Local, Line: line, attrs: t.Attr}); err != nil {
				return err
			}
		case xml.EndElement:
			if err := h.EndElement(t.Name.Local); err != nil {
				return err
			}
		}
	}
}
