// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package representation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrUnsupportedMediaType indicates an object cannot be written in the
	// representation's media type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrNoObject indicates a representation with neither an object nor a source.
	ErrNoObject = errors.New("the representation has no object")

	// ErrMissingContentType indicates a request body without a Content-Type.
	ErrMissingContentType = errors.New("missing Content-Type")
)

// Source is a document to parse, together with its media type.
type Source interface {
	io.Reader

	// MediaType describes the bytes of this source
	MediaType() MediaType
}

type source struct {
	io.Reader
	mediaType MediaType
}

func (s source) MediaType() MediaType {
	return s.mediaType
}

// NewSource pairs a reader with its media type.
func NewSource(mt MediaType, r io.Reader) Source {
	return source{
		Reader:    r,
		mediaType: mt,
	}
}

// FromRequest exposes a request body as a Source, using its Content-Type.
func FromRequest(request *http.Request) (Source, error) {
	ct := request.Header.Get("Content-Type")
	if len(ct) == 0 {
		return nil, ErrMissingContentType
	}

	mt, err := ParseMediaType(ct)
	if err != nil {
		return nil, err
	}

	return NewSource(mt, request.Body), nil
}

// Representation is an object of type T in a given media type.  It either
// wraps an object to write, or a source to parse into an object.
//
// A Representation is not safe for concurrent use, and its source can be
// consumed only once.
type Representation[T any] struct {
	mediaType MediaType
	object    T
	hasObject bool
	source    Source
	err       error

	// LoadOptions overrides the resource's default load options when set.
	LoadOptions *LoadOptions

	// SaveOptions overrides the resource's default save options when set.
	SaveOptions *SaveOptions

	// ResourceFactory creates the Resource for a media type.  NewResource
	// is used when unset.
	ResourceFactory func(MediaType) *Resource
}

// New creates a Representation that formats object.  Supported media types
// are the XML family (see IsXML) and text/html.
func New[T any](mt MediaType, object T) *Representation[T] {
	return &Representation[T]{
		mediaType: mt,
		object:    object,
		hasObject: true,
	}
}

// Parse creates a Representation that parses src.
func Parse[T any](src Source) *Representation[T] {
	return &Representation[T]{
		mediaType: src.MediaType(),
		source:    src,
	}
}

// MediaType returns the media type of this representation.
func (r *Representation[T]) MediaType() MediaType {
	return r.mediaType
}

// CharacterSet returns the charset of the media type, which may be empty.
func (r *Representation[T]) CharacterSet() string {
	return r.mediaType.Charset()
}

// ContentType is the value for a Content-Type header.  When no charset is
// set, the charset this representation writes with is added.
func (r *Representation[T]) ContentType() string {
	mt := r.mediaType
	if len(mt.Charset()) == 0 && r.source == nil {
		switch {
		case IsXML(mt):
			mt = mt.WithCharset(DefaultCharset)

		case TextHTML.Compatible(mt):
			mt = mt.WithCharset(DefaultHTMLCharset)
		}
	}

	return mt.String()
}

func (r *Representation[T]) resource() *Resource {
	if r.ResourceFactory != nil {
		return r.ResourceFactory(r.mediaType)
	}

	return NewResource(r.mediaType)
}

// Object returns the wrapped object.  For a parsed representation, the first
// call loads the object from the source and later calls return that result.
func (r *Representation[T]) Object() (T, error) {
	if r.source != nil {
		var object T
		src := r.source
		r.source = nil

		r.err = r.resource().Load(src, &object, r.LoadOptions)
		if r.err == nil {
			r.object = object
			r.hasObject = true
		}
	}

	switch {
	case r.hasObject:
		return r.object, nil

	case r.err != nil:
		return r.object, r.err

	default:
		return r.object, ErrNoObject
	}
}

// Write writes this representation.  An unparsed source is copied as is.
// An object is saved as a document for XML media types or rendered as a table
// for text/html.
//
// Saving adds the object to a new Resource for every call, so the object is
// never shared between documents.
func (r *Representation[T]) Write(w io.Writer) error {
	switch {
	case r.source != nil:
		_, err := io.Copy(w, r.source)
		return err

	case !r.hasObject:
		if r.err != nil {
			return r.err
		}

		return ErrNoObject

	case IsXML(r.mediaType):
		return r.resource().Save(w, r.object, r.SaveOptions)

	case TextHTML.Compatible(r.mediaType):
		return WriteHTML(w, r.object, r.CharacterSet())

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, r.mediaType)
	}
}

// WriteResponse writes this representation as an HTTP response with the given
// status code.  Nothing is sent if the representation cannot be written, so
// the caller can still respond with an error.
func (r *Representation[T]) WriteResponse(response http.ResponseWriter, code int) error {
	var body bytes.Buffer
	if err := r.Write(&body); err != nil {
		return err
	}

	response.Header().Set("Content-Type", r.ContentType())
	response.WriteHeader(code)
	_, err := body.WriteTo(response)
	return err
}
