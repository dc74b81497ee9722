package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chart-builder/backend/internal/models"
	"golang.org/x/net/html/charset"
)

// Names and attribute values of the vendor export format.
const (
	groupAnalog      = "Analog Group"
	groupBinary      = "Binary Group"
	modbusFolderType = models.BaseNodeModbusFolder
)

// xmlNode is a generic element of the export document. The format nests
// "OI" object instances arbitrarily deep, so it is decoded into a tree and
// walked instead of being mapped onto fixed structs.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first direct child element called name.
func (n *xmlNode) child(name string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// descendants returns every element below n, in document order, for which
// match returns true.
func (n *xmlNode) descendants(match func(*xmlNode) bool) []*xmlNode {
	var out []*xmlNode
	var walk func(*xmlNode)
	walk = func(cur *xmlNode) {
		for i := range cur.Children {
			c := &cur.Children[i]
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// firstDescendant returns the first element below n in document order for
// which match returns true.
func (n *xmlNode) firstDescendant(match func(*xmlNode) bool) *xmlNode {
	for i := range n.Children {
		c := &n.Children[i]
		if match(c) {
			return c
		}
		if found := c.firstDescendant(match); found != nil {
			return found
		}
	}
	return nil
}

func named(local string) func(*xmlNode) bool {
	return func(n *xmlNode) bool { return n.XMLName.Local == local }
}

func objectNamed(name string) func(*xmlNode) bool {
	return func(n *xmlNode) bool {
		if n.XMLName.Local != "OI" {
			return false
		}
		v, _ := n.attr("NAME")
		return v == name
	}
}

// capture holds a value that is set at most once: the first trend of a
// group decides the group's storage path and Modbus hint.
type capture struct {
	value *string
}

func (c *capture) set(v string) bool {
	if c.value != nil {
		return false
	}
	c.value = &v
	return true
}

func (c *capture) done() bool { return c.value != nil }

// ExtractEBOExportFile opens and extracts an export document. Any failure
// to read or parse the file yields ok == false.
func ExtractEBOExportFile(filePath string) (*models.ExtractionResult, bool) {
	file, err := os.Open(filePath)
	if err != nil {
		fmt.Printf("[Extract] cannot open %s: %v\n", filePath, err)
		return nil, false
	}
	defer file.Close()

	return ExtractEBOExport(file)
}

// checkTrailing consumes the rest of the stream after the root element.
// Only comments, processing instructions and whitespace may follow it.
func checkTrailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("second root element <%s>", t.Name.Local)
		case xml.EndElement:
			return fmt.Errorf("unexpected end element </%s>", t.Name.Local)
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return fmt.Errorf("text after root element")
			}
		}
	}
}

// ExtractEBOExport reads server metadata and the analog and binary trend
// groups from an export document. A malformed document yields ok == false;
// missing sections leave the matching result fields empty.
func ExtractEBOExport(r io.Reader) (*models.ExtractionResult, bool) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var root xmlNode
	if err := dec.Decode(&root); err != nil {
		fmt.Printf("[Extract] malformed document: %v\n", err)
		return nil, false
	}
	if err := checkTrailing(dec); err != nil {
		fmt.Printf("[Extract] malformed document: %v\n", err)
		return nil, false
	}

	result := models.NewExtractionResult()

	if meta := root.child("MetaInformation"); meta != nil {
		if n := meta.firstDescendant(named("RuntimeVersion")); n != nil {
			if v, ok := n.attr("Value"); ok {
				result.RuntimeVersion = &v
			}
		}
		if n := meta.firstDescendant(named("ServerFullPath")); n != nil {
			if v, ok := n.attr("Value"); ok {
				result.ServerFullPath = &v
			}
		}
	} else {
		fmt.Printf("[Extract] no MetaInformation section\n")
	}

	exported := root.child("ExportedObjects")
	if exported == nil {
		fmt.Printf("[Extract] no ExportedObjects section\n")
		return result, true
	}
	trendRoot := exported.firstDescendant(objectNamed("Trend"))
	if trendRoot == nil {
		fmt.Printf("[Extract] no Trend container\n")
		return result, true
	}

	var analogPath, binaryPath capture
	isGroup := func(n *xmlNode) bool {
		if n.XMLName.Local != "OI" {
			return false
		}
		name, _ := n.attr("NAME")
		return name == groupAnalog || name == groupBinary
	}

	for _, group := range trendRoot.descendants(isGroup) {
		groupName, _ := group.attr("NAME")
		groupType, _ := group.attr("TYPE")

		path := &analogPath
		names := &result.TrendsAnalog
		if groupName == groupBinary {
			path = &binaryPath
			names = &result.TrendsBinary
		}

		for _, t := range group.descendants(named("OI")) {
			trendName, _ := t.attr("NAME")

			if !path.done() {
				if groupType == modbusFolderType {
					result.IsModbus = true
				}
				if ref := t.firstDescendant(named("Reference")); ref != nil {
					if object, ok := ref.attr("Object"); ok {
						path.set(StoragePath(object))
					}
				}
			}

			*names = append(*names, trendName)
		}
	}

	result.PathAnalog = analogPath.value
	result.PathBinary = binaryPath.value
	return result, true
}

// StoragePath turns a trend's data reference into the folder that holds its
// trend log: "Data" becomes "Trend" and the last path segment is dropped.
func StoragePath(reference string) string {
	p := strings.ReplaceAll(reference, "Data", "Trend")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return p
}
