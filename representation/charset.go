// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package representation

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrUnsupportedCharset indicates a charset with no available encoder or decoder.
var ErrUnsupportedCharset = errors.New("unsupported charset")

const (
	// DefaultCharset is the encoding of XML documents that don't specify one.
	DefaultCharset = "UTF-8"

	// DefaultHTMLCharset is the encoding of HTML output that doesn't specify one.
	DefaultHTMLCharset = "ISO-8859-1"
)

func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return true

	default:
		return false
	}
}

// lookupEncoding returns nil for UTF-8, which needs no transformation.
func lookupEncoding(charset string) (encoding.Encoding, error) {
	if isUTF8(charset) {
		return nil, nil
	}

	e, err := ianaindex.IANA.Encoding(charset)
	if err != nil || e == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharset, charset)
	}

	return e, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// encodeWriter returns a writer that encodes UTF-8 text into charset.  Runes
// outside the charset's repertoire become numeric character references,
// which both XML and HTML resolve.  The returned writer must be closed to
// flush any pending output.
func encodeWriter(w io.Writer, charset string) (io.WriteCloser, error) {
	e, err := lookupEncoding(charset)
	switch {
	case err != nil:
		return nil, err

	case e == nil:
		return nopWriteCloser{Writer: w}, nil

	default:
		return transform.NewWriter(w, encoding.HTMLEscapeUnsupported(e.NewEncoder())), nil
	}
}

// charsetReader is an encoding/xml CharsetReader backed by x/text.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	e, err := lookupEncoding(charset)
	switch {
	case err != nil:
		return nil, err

	case e == nil:
		return input, nil

	default:
		return transform.NewReader(input, e.NewDecoder()), nil
	}
}
