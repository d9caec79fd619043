package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/fulmenhq/dfrecon/pkg/safeio"
	"golang.org/x/text/cases"
)

const indentSpaces = 2

// Codec reads and writes manifest documents. Reads match element and
// attribute names case-insensitively and skip anything unknown; writes emit
// an XML declaration and an indented tree. The zero value is not usable,
// build one with NewCodec.
type Codec struct {
	indent      int
	declaration bool
}

// NewCodec returns the codec used for every manifest read and write.
func NewCodec() Codec {
	return Codec{indent: indentSpaces, declaration: true}
}

// ReadFile loads and decodes the manifest at path.
func (c Codec) ReadFile(path string) (*DataFetch, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied manifest path
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	return c.Decode(bytes.NewReader(data), path)
}

// WriteFile encodes doc and replaces path atomically. On error the previous
// content of path, if any, is left in place.
func (c Codec) WriteFile(path string, doc *DataFetch) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf, doc); err != nil {
		return err
	}
	if err := safeio.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// Decode parses a manifest from r. source names the input in error messages.
func (c Codec) Decode(r io.Reader, source string) (*DataFetch, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &MalformedError{Source: source, Err: err}
	}
	if err := checkTopLevel(doc); err != nil {
		return nil, &MalformedError{Source: source, Err: err}
	}

	root := doc.Root()
	if !nameIs(root.Tag, ElementRoot) {
		return nil, &SchemaError{Source: source, Item: -1, Reason: fmt.Sprintf("root element is <%s>, expected <%s>", root.Tag, ElementRoot)}
	}

	out := &DataFetch{Items: []DataItem{}}
	idx := 0
	for _, child := range root.ChildElements() {
		if !nameIs(child.Tag, ElementItem) {
			continue
		}
		item, err := decodeItem(child)
		if err != nil {
			return nil, &SchemaError{Source: source, Item: idx, Reason: err.Error()}
		}
		out.Items = append(out.Items, item)
		idx++
	}
	return out, nil
}

func decodeItem(el *etree.Element) (DataItem, error) {
	var item DataItem

	tenant, ok := attrValue(el, AttrTenant)
	if !ok {
		return item, fmt.Errorf("missing %q attribute", AttrTenant)
	}
	item.Tenant = tenant

	res := childElement(el, ElementResource)
	if res == nil {
		return item, fmt.Errorf("missing <%s> element", ElementResource)
	}
	item.Resource = res.Text()

	item.Properties = []Property{}
	props := childElement(el, ElementProperties)
	if props == nil {
		return item, nil
	}
	for _, p := range props.ChildElements() {
		if !nameIs(p.Tag, ElementProperty) {
			continue
		}
		name, ok := attrValue(p, AttrName)
		if !ok {
			return item, fmt.Errorf("property without %q attribute", AttrName)
		}
		value, ok := attrValue(p, AttrValue)
		if !ok {
			return item, fmt.Errorf("property %q without %q attribute", name, AttrValue)
		}
		item.Properties = append(item.Properties, NewProperty(name, value))
	}
	return item, nil
}

// Encode writes doc to w.
func (c Codec) Encode(w io.Writer, doc *DataFetch) error {
	if doc == nil {
		return fmt.Errorf("cannot encode nil manifest")
	}

	out := etree.NewDocument()
	if c.declaration {
		out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	}
	root := out.CreateElement(ElementRoot)
	for _, item := range doc.Items {
		el := root.CreateElement(ElementItem)
		el.CreateAttr(AttrTenant, item.Tenant)
		el.CreateElement(ElementResource).SetText(item.Resource)
		props := el.CreateElement(ElementProperties)
		for _, p := range item.Properties {
			pe := props.CreateElement(ElementProperty)
			pe.CreateAttr(AttrName, p.Name)
			pe.CreateAttr(AttrValue, p.Value)
		}
	}
	if c.indent > 0 {
		out.Indent(c.indent)
	}

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	return nil
}

// checkTopLevel enforces a single root element with nothing but whitespace,
// comments and processing instructions around it. etree itself accepts
// sibling roots and trailing text.
func checkTopLevel(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return fmt.Errorf("text outside the root element: %q", strings.TrimSpace(t.Data))
			}
		}
	}
	switch roots {
	case 0:
		return errors.New("document has no root element")
	case 1:
		return nil
	default:
		return fmt.Errorf("document has %d root elements", roots)
	}
}

// nameIs compares XML names under Unicode case folding.
func nameIs(got, want string) bool {
	fold := cases.Fold()
	return fold.String(got) == fold.String(want)
}

func childElement(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if nameIs(child.Tag, name) {
			return child
		}
	}
	return nil
}

func attrValue(el *etree.Element, name string) (string, bool) {
	for _, a := range el.Attr {
		if nameIs(a.Key, name) {
			return a.Value, true
		}
	}
	return "", false
}
