// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package representation exchanges domain objects as XML documents.

The media type of a Representation selects the document kind: ECore media
types produce EMOF documents, XMI media types produce XMI documents, and every
other XML media type produces a plain XML document whose root element is the
object itself.  Objects are marshaled with encoding/xml, so struct tags control
element and attribute names.  Objects can also be rendered as an HTML table.

A Representation either wraps an object to format, created with New, or a
source document to parse, created with Parse.
*/
package representation
