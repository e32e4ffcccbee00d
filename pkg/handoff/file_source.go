package handoff

import (
	"github.com/benmeehan/nav-handoff/pkg/file"
)

// FileSource reads a hand-off the host wrote as a JSON object to a local file.
// The file existing is the active handle; its decoded content is the data object.
type FileSource struct {
	path    string
	fileOps file.FileOperations
	gate    *VersionGate
}

// NewFileSource creates a FileSource for path. gate may be nil.
func NewFileSource(path string, fileOps file.FileOperations, gate *VersionGate) *FileSource {
	return &FileSource{
		path:    path,
		fileOps: fileOps,
		gate:    gate,
	}
}

// HasActiveHandle reports whether the hand-off file is present.
func (f *FileSource) HasActiveHandle() bool {
	exists, err := f.fileOps.IsFileExists(f.path)
	return err == nil && exists
}

// GetDataObject decodes the hand-off file.
func (f *FileSource) GetDataObject() (DataObject, error) {
	var extras Extras
	if err := f.fileOps.ReadJsonFile(f.path, &extras); err != nil {
		return nil, err
	}
	if extras == nil {
		return nil, ErrNoDataObject
	}
	if err := f.gate.Check(extras); err != nil {
		return nil, err
	}
	return extras, nil
}
