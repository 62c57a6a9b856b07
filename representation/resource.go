// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package representation

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var (
	// ErrNoContents indicates a document without any content element.
	ErrNoContents = errors.New("the document has no contents")

	// ErrMissingEnvelope indicates an XMI or EMOF document without its xmi:XMI
	// root, when LoadOptions.ProcessAnyXML is off.
	ErrMissingEnvelope = errors.New("the document has no xmi:XMI envelope")
)

// Namespaces used by envelope documents.
const (
	XMINamespace   = "http://www.omg.org/XMI"
	XMI21Namespace = "http://schema.omg.org/spec/XMI/2.1"
	EMOFNamespace  = "http://schema.omg.org/spec/MOF/2.0/emof.xml"
	XSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
)

// Kind is the document kind a Resource reads and writes.
type Kind int

const (
	// KindXML documents have the object as their root element.
	KindXML Kind = iota

	// KindXMI documents wrap the object in an xmi:XMI envelope.
	KindXMI

	// KindEMOF documents are XMI 2.1 documents that also declare the EMOF namespace.
	KindEMOF
)

func (k Kind) String() string {
	switch k {
	case KindXML:
		return "XML"

	case KindXMI:
		return "XMI"

	case KindEMOF:
		return "EMOF"

	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf selects the document kind for a media type.
func KindOf(mt MediaType) Kind {
	switch {
	case ApplicationEcore.Compatible(mt):
		return KindEMOF

	case ApplicationXMI.Compatible(mt):
		return KindXMI

	default:
		return KindXML
	}
}

// LoadOptions tailor how a Resource reads documents.
type LoadOptions struct {
	// Strict turns on encoding/xml strict parsing.
	Strict bool

	// ProcessAnyXML accepts XMI and EMOF documents that lack the envelope,
	// decoding the root element as the object.
	ProcessAnyXML bool

	// ProcessSchemaLocations records the envelope's xsi:schemaLocation
	// pairs into Resource.SchemaLocations.
	ProcessSchemaLocations bool
}

// SaveOptions tailor how a Resource writes documents.
type SaveOptions struct {
	// Declaration writes the <?xml ...?> declaration first.
	Declaration bool

	// Indent is the per-level indentation.  Empty writes everything on one line.
	Indent string

	// SchemaLocation writes Resource.SchemaLocations as xsi:schemaLocation on
	// the envelope.  Plain XML documents have no envelope and ignore this.
	SchemaLocation bool
}

// Resource reads and writes objects for one document kind.  Not to be
// confused with an HTTP resource.
type Resource struct {
	// Kind is the document kind
	Kind Kind

	// Encoding is the charset of documents written by Save.  Load honors
	// the encoding declared by each document.
	Encoding string

	// DefaultLoadOptions are used when Load is passed nil options
	DefaultLoadOptions LoadOptions

	// DefaultSaveOptions are used when Save is passed nil options
	DefaultSaveOptions SaveOptions

	// SchemaLocations maps namespaces to schema locations
	SchemaLocations map[string]string
}

// NewResource creates a Resource configured for a media type.  The encoding
// is the media type's charset, or UTF-8.
func NewResource(mt MediaType) *Resource {
	r := &Resource{
		Kind:     KindOf(mt),
		Encoding: mt.Charset(),
		DefaultLoadOptions: LoadOptions{
			ProcessAnyXML:          true,
			ProcessSchemaLocations: true,
		},
		DefaultSaveOptions: SaveOptions{
			Declaration:    true,
			Indent:         "  ",
			SchemaLocation: true,
		},
	}

	if len(r.Encoding) == 0 {
		r.Encoding = DefaultCharset
	}

	return r
}

func (r *Resource) envelope(o SaveOptions) xml.StartElement {
	start := xml.StartElement{
		Name: xml.Name{Local: "xmi:XMI"},
	}

	if r.Kind == KindEMOF {
		start.Attr = append(start.Attr,
			xml.Attr{Name: xml.Name{Local: "xmi:version"}, Value: "2.1"},
			xml.Attr{Name: xml.Name{Local: "xmlns:xmi"}, Value: XMI21Namespace},
			xml.Attr{Name: xml.Name{Local: "xmlns:emof"}, Value: EMOFNamespace},
		)
	} else {
		start.Attr = append(start.Attr,
			xml.Attr{Name: xml.Name{Local: "xmi:version"}, Value: "2.0"},
			xml.Attr{Name: xml.Name{Local: "xmlns:xmi"}, Value: XMINamespace},
		)
	}

	if o.SchemaLocation && len(r.SchemaLocations) > 0 {
		namespaces := make([]string, 0, len(r.SchemaLocations))
		for ns := range r.SchemaLocations {
			namespaces = append(namespaces, ns)
		}

		sort.Strings(namespaces)
		pairs := make([]string, 0, 2*len(namespaces))
		for _, ns := range namespaces {
			pairs = append(pairs, ns, r.SchemaLocations[ns])
		}

		start.Attr = append(start.Attr,
			xml.Attr{Name: xml.Name{Local: "xmlns:xsi"}, Value: XSINamespace},
			xml.Attr{Name: xml.Name{Local: "xsi:schemaLocation"}, Value: strings.Join(pairs, " ")},
		)
	}

	return start
}

// Save writes object as a document of this resource's kind.  A nil opts
// uses DefaultSaveOptions.
func (r *Resource) Save(w io.Writer, object interface{}, opts *SaveOptions) (err error) {
	o := r.DefaultSaveOptions
	if opts != nil {
		o = *opts
	}

	out, err := encodeWriter(w, r.Encoding)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	if o.Declaration {
		if _, err = fmt.Fprintf(out, "<?xml version=\"1.0\" encoding=%q?>\n", r.Encoding); err != nil {
			return
		}
	}

	e := xml.NewEncoder(out)
	if len(o.Indent) > 0 {
		e.Indent("", o.Indent)
	}

	if r.Kind == KindXML {
		err = e.Encode(object)
	} else {
		start := r.envelope(o)
		if err = e.EncodeToken(start); err == nil {
			err = e.Encode(object)
		}

		if err == nil {
			err = e.EncodeToken(start.End())
		}
	}

	if err == nil {
		err = e.Flush()
	}

	if err == nil && len(o.Indent) > 0 {
		_, err = io.WriteString(out, "\n")
	}

	return
}

func isEnvelope(start xml.StartElement) bool {
	if start.Name.Local != "XMI" {
		return false
	}

	switch start.Name.Space {
	case XMINamespace, XMI21Namespace, "xmi":
		return true

	default:
		return false
	}
}

// nextStart advances to the next start element at the current depth.
func nextStart(d *xml.Decoder) (xml.StartElement, error) {
	for {
		t, err := d.Token()
		if errors.Is(err, io.EOF) {
			return xml.StartElement{}, ErrNoContents
		} else if err != nil {
			return xml.StartElement{}, err
		}

		switch tt := t.(type) {
		case xml.StartElement:
			return tt.Copy(), nil

		case xml.EndElement:
			return xml.StartElement{}, ErrNoContents
		}
	}
}

func (r *Resource) recordSchemaLocations(start xml.StartElement) {
	for _, a := range start.Attr {
		if a.Name.Space != XSINamespace || a.Name.Local != "schemaLocation" {
			continue
		}

		fields := strings.Fields(a.Value)
		for i := 0; i+1 < len(fields); i += 2 {
			if r.SchemaLocations == nil {
				r.SchemaLocations = make(map[string]string)
			}

			r.SchemaLocations[fields[i]] = fields[i+1]
		}
	}
}

// Load decodes the first content element of a document into object, which
// must be a pointer.  A nil opts uses DefaultLoadOptions.
func (r *Resource) Load(src io.Reader, object interface{}, opts *LoadOptions) error {
	o := r.DefaultLoadOptions
	if opts != nil {
		o = *opts
	}

	d := xml.NewDecoder(src)
	d.Strict = o.Strict
	d.CharsetReader = charsetReader

	start, err := nextStart(d)
	if err != nil {
		return err
	}

	if isEnvelope(start) {
		if o.ProcessSchemaLocations {
			r.recordSchemaLocations(start)
		}

		if start, err = nextStart(d); err != nil {
			return err
		}
	} else if r.Kind != KindXML && !o.ProcessAnyXML {
		return fmt.Errorf("%w: found <%s>", ErrMissingEnvelope, start.Name.Local)
	}

	return d.DecodeElement(object, &start)
}
