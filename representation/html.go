// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package representation

import (
	"fmt"
	"html/template"
	"io"
	"reflect"
	"strings"
)

var htmlTemplate = template.Must(template.New("object").Parse(`<html>
<head>
<meta http-equiv="Content-Type" content="text/html; charset={{.Charset}}">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<table border="1">
<tr><th>Property</th><th>Value</th></tr>
{{- range .Rows}}
<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

type htmlRow struct {
	Name  string
	Value string
}

type htmlPage struct {
	Charset string
	Title   string
	Rows    []htmlRow
}

// propertyName prefers the xml tag name, so the HTML table lines up with
// the XML documents for the same object.
func propertyName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("xml"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if len(name) > 0 && name != "-" {
			if _, local, ok := strings.Cut(name, " "); ok {
				return local
			}

			return name
		}
	}

	return f.Name
}

func newHTMLPage(object interface{}, charset string) htmlPage {
	page := htmlPage{
		Charset: charset,
	}

	v := reflect.ValueOf(object)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			page.Title = fmt.Sprintf("%T", object)
			return page
		}

		v = v.Elem()
	}

	page.Title = v.Type().Name()
	if len(page.Title) == 0 {
		page.Title = v.Type().String()
	}

	if v.Kind() != reflect.Struct {
		page.Rows = append(page.Rows, htmlRow{Name: "value", Value: fmt.Sprint(v.Interface())})
		return page
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Name == "XMLName" || f.Tag.Get("xml") == "-" {
			continue
		}

		page.Rows = append(page.Rows, htmlRow{
			Name:  propertyName(f),
			Value: fmt.Sprint(v.Field(i).Interface()),
		})
	}

	return page
}

// WriteHTML renders object as an HTML table of its exported properties,
// encoded in charset.  An empty charset means DefaultHTMLCharset.
func WriteHTML(w io.Writer, object interface{}, charset string) (err error) {
	if len(charset) == 0 {
		charset = DefaultHTMLCharset
	}

	out, err := encodeWriter(w, charset)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	err = htmlTemplate.Execute(out, newHTMLPage(object, charset))
	return
}
