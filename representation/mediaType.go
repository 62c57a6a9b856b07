// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package representation

import (
	"fmt"
	"mime"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// MediaType is a parsed media type, e.g. application/xmi+xml; charset=UTF-8.
// Type, subtype, and parameter names are always lower case.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

var (
	// All matches every media type.
	All = MustParseMediaType("*/*")

	// ApplicationAllXML matches every application type with an +xml suffix.
	ApplicationAllXML = MustParseMediaType("application/*+xml")

	// ApplicationXML is the generic XML media type.
	ApplicationXML = MustParseMediaType("application/xml")

	// TextXML is the legacy, text-typed XML media type.
	TextXML = MustParseMediaType("text/xml")

	// ApplicationXMI is the media type of XMI documents.
	ApplicationXMI = MustParseMediaType("application/xmi+xml")

	// ApplicationEcore is the media type of ECore (EMOF) documents.
	ApplicationEcore = MustParseMediaType("application/x-ecore+xml")

	// TextHTML is the media type of HTML documents.
	TextHTML = MustParseMediaType("text/html")
)

// ParseMediaType parses a media type with optional parameters.
func ParseMediaType(v string) (MediaType, error) {
	full, params, err := mime.ParseMediaType(v)
	if err != nil {
		return MediaType{}, fmt.Errorf("invalid media type %q: %w", v, err)
	}

	t, st, ok := strings.Cut(full, "/")
	if !ok || len(t) == 0 || len(st) == 0 {
		return MediaType{}, fmt.Errorf("invalid media type %q: missing subtype", v)
	}

	mt := MediaType{
		Type:    t,
		Subtype: st,
	}

	if len(params) > 0 {
		mt.Params = params
	}

	return mt, nil
}

// MustParseMediaType is like ParseMediaType, but panics on errors.
func MustParseMediaType(v string) MediaType {
	mt, err := ParseMediaType(v)
	if err != nil {
		panic(err)
	}

	return mt
}

// IsZero tests if this is the zero value, i.e. no media type at all.
func (mt MediaType) IsZero() bool {
	return len(mt.Type) == 0 && len(mt.Subtype) == 0
}

// Name returns type/subtype without any parameters.
func (mt MediaType) Name() string {
	return mt.Type + "/" + mt.Subtype
}

// String returns the full media type, including parameters.
func (mt MediaType) String() string {
	if mt.IsZero() {
		return ""
	}

	return mime.FormatMediaType(mt.Name(), mt.Params)
}

// Charset returns the charset parameter, if any.
func (mt MediaType) Charset() string {
	return mt.Params["charset"]
}

// WithCharset returns a copy of this media type with the charset parameter set.
// The parameters of this instance are not modified.
func (mt MediaType) WithCharset(charset string) MediaType {
	params := make(map[string]string, len(mt.Params)+1)
	for k, v := range mt.Params {
		params[k] = v
	}

	params["charset"] = charset
	mt.Params = params
	return mt
}

// Equal compares type and subtype, ignoring parameters.
func (mt MediaType) Equal(other MediaType) bool {
	return mt.Type == other.Type && mt.Subtype == other.Subtype
}

// Includes tests if other falls within the range of this media type.
// A "*" type includes everything, a "*" subtype includes everything with the
// same type, and a "*+suffix" subtype includes every subtype with that
// structured syntax suffix.  Parameters are ignored.
func (mt MediaType) Includes(other MediaType) bool {
	switch {
	case mt.Type == "*":
		return true

	case mt.Type != other.Type:
		return false

	case mt.Subtype == "*" || mt.Subtype == other.Subtype:
		return true

	case strings.HasPrefix(mt.Subtype, "*+"):
		return strings.HasSuffix(other.Subtype, mt.Subtype[1:])

	default:
		return false
	}
}

// Compatible tests if either media type includes the other.
func (mt MediaType) Compatible(other MediaType) bool {
	return mt.Includes(other) || other.Includes(mt)
}

// IsXML tests if mt belongs to the XML family: any +xml type, application/xml,
// text/xml, XMI, or ECore.
func IsXML(mt MediaType) bool {
	return ApplicationAllXML.Compatible(mt) ||
		ApplicationXML.Compatible(mt) ||
		TextXML.Compatible(mt) ||
		ApplicationXMI.Compatible(mt) ||
		ApplicationEcore.Compatible(mt)
}

var mediaTypeType = reflect.TypeOf(MediaType{})

// DecodeHook converts configuration strings into MediaType values.  Use it
// with restwire.DecodeHook.
func DecodeHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != mediaTypeType {
			return data, nil
		}

		return ParseMediaType(data.(string))
	}
}
