// Package olecf recognizes OLE Compound File containers that are handed in
// place of a .docx package.
//
// Word writes two kinds of such files: the legacy Word 97-2003 binary format
// and password-protected OOXML, where the real package is stored encrypted in
// an "EncryptedPackage" stream.
package olecf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"

	"github.com/hanpama/docxtext/internal/document"
)

var signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// IsCompoundFile reports whether r starts with the compound file signature.
func IsCompoundFile(r io.ReaderAt) bool {
	var buf [8]byte
	n, _ := r.ReadAt(buf[:], 0)
	return n == len(buf) && bytes.Equal(buf[:], signature)
}

// Classify inspects the stream directory of a compound file and returns the
// error describing why it cannot be extracted as a .docx package.
func Classify(r io.ReaderAt) error {
	streams, err := streamNames(r)
	if err != nil {
		return fmt.Errorf("%w: failed to read compound file: %w", document.ErrInvalidDocument, err)
	}

	switch {
	case streams["EncryptionInfo"] && streams["EncryptedPackage"]:
		return document.ErrEncrypted
	case streams["WordDocument"]:
		return document.ErrLegacyFormat
	}

	return fmt.Errorf("%w: compound file without a Word document stream", document.ErrInvalidDocument)
}

// streamNames lists the root-level entries of the container.
func streamNames(r io.ReaderAt) (map[string]bool, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, err
	}

	names := make(map[string]bool)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if len(entry.Path) == 0 {
			names[entry.Name] = true
		}
	}

	return names, nil
}
