package wordml

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hanpama/docxtext/internal/document"
)

const (
	relsPart         = "_rels/.rels"
	contentTypesPart = "[Content_Types].xml"
	corePropsPart    = "docProps/core.xml"
	defaultMainPart  = "word/document.xml"

	officeDocumentRel = "/officeDocument"
)

// main part content types accepted as WordprocessingML
var mainContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml": true,
	"application/vnd.ms-word.document.macroEnabled.main+xml":                           true,
	"application/vnd.ms-word.template.macroEnabledTemplate.main+xml":                   true,
}

// Reader provides access to the parts of a WordprocessingML package
type Reader struct {
	zipReader  *zip.Reader
	mainPart   string
	properties document.Properties
}

// Open opens a .docx package and returns a Reader
func Open(r io.ReaderAt, size int64) (*Reader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open package as ZIP: %w", document.ErrInvalidDocument, err)
	}

	reader := &Reader{
		zipReader: zipReader,
	}

	if err := reader.resolveMainPart(); err != nil {
		return nil, err
	}

	if err := reader.validateContentType(); err != nil {
		return nil, err
	}

	// core properties are optional
	reader.parseCoreProperties()

	return reader, nil
}

// MainPart returns the package name of the main document part.
func (r *Reader) MainPart() string {
	return r.mainPart
}

// Properties returns the core properties found in the package.
func (r *Reader) Properties() document.Properties {
	return r.properties
}

func (r *Reader) resolveMainPart() error {
	file, err := r.zipReader.Open(relsPart)
	if errors.Is(err, fs.ErrNotExist) {
		r.mainPart = defaultMainPart
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %w", document.ErrInvalidDocument, relsPart, err)
	}
	defer file.Close()

	var rels struct {
		XMLName       xml.Name `xml:"Relationships"`
		Relationships []struct {
			Type       string `xml:"Type,attr"`
			Target     string `xml:"Target,attr"`
			TargetMode string `xml:"TargetMode,attr"`
		} `xml:"Relationship"`
	}

	if err := newDecoder(file).Decode(&rels); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %w", document.ErrInvalidDocument, relsPart, err)
	}

	for _, rel := range rels.Relationships {
		if strings.HasSuffix(rel.Type, officeDocumentRel) && rel.TargetMode != "External" {
			r.mainPart = strings.TrimPrefix(path.Clean("/"+rel.Target), "/")
			return nil
		}
	}

	r.mainPart = defaultMainPart
	return nil
}

func (r *Reader) validateContentType() error {
	file, err := r.zipReader.Open(contentTypesPart)
	if err != nil {
		return fmt.Errorf("%w: %s not found: %w", document.ErrInvalidDocument, contentTypesPart, err)
	}
	defer file.Close()

	var types struct {
		XMLName   xml.Name `xml:"Types"`
		Overrides []struct {
			PartName    string `xml:"PartName,attr"`
			ContentType string `xml:"ContentType,attr"`
		} `xml:"Override"`
	}

	if err := newDecoder(file).Decode(&types); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %w", document.ErrInvalidDocument, contentTypesPart, err)
	}

	partName := "/" + r.mainPart
	for _, o := range types.Overrides {
		if !strings.EqualFold(o.PartName, partName) {
			continue
		}
		if !mainContentTypes[o.ContentType] {
			return fmt.Errorf("%w: main part has content type '%s'", document.ErrInvalidDocument, o.ContentType)
		}
		return nil
	}

	return fmt.Errorf("%w: no content type declared for %s", document.ErrInvalidDocument, partName)
}

func (r *Reader) parseCoreProperties() {
	file, err := r.zipReader.Open(corePropsPart)
	if err != nil {
		return
	}
	defer file.Close()

	var core struct {
		XMLName        xml.Name `xml:"coreProperties"`
		Title          string   `xml:"title"`
		Subject        string   `xml:"subject"`
		Creator        string   `xml:"creator"`
		LastModifiedBy string   `xml:"lastModifiedBy"`
		Created        string   `xml:"created"`
		Modified       string   `xml:"modified"`
	}

	if err := newDecoder(file).Decode(&core); err != nil {
		return
	}

	r.properties = document.Properties{
		Title:          strings.TrimSpace(core.Title),
		Subject:        strings.TrimSpace(core.Subject),
		Creator:        strings.TrimSpace(core.Creator),
		LastModifiedBy: strings.TrimSpace(core.LastModifiedBy),
		Created:        strings.TrimSpace(core.Created),
		Modified:       strings.TrimSpace(core.Modified),
	}
}

// NewContentScanner creates a scanner over the body of the main document part
func (r *Reader) NewContentScanner() (*ContentScanner, error) {
	file, err := r.zipReader.Open(r.mainPart)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", document.ErrInvalidDocument, r.mainPart, err)
	}

	return NewContentScanner(file), nil
}
