package yamas

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadSet describes one run's sequencing reads: where they live and
// whether forward and/or reverse read files are present.
type ReadSet struct {
	DirPath string `json:"dir_path"`
	Fwd     bool   `json:"fwd"`
	Rev     bool   `json:"rev"`
}

// Paired reports whether the reads are paired-end.
func (r ReadSet) Paired() bool {
	return r.Fwd && r.Rev
}

// DataType selects the analysis branch.
type DataType string

const (
	Amplicon16S DataType = "16S"
	Amplicon18S DataType = "18S"
	Shotgun     DataType = "Shotgun"
)

// Amplicon reports whether the data type routes through the marker-gene branch.
func (t DataType) Amplicon() bool {
	return t == Amplicon16S || t == Amplicon18S
}

func ParseDataType(s string) (DataType, error) {
	switch s {
	case "16S":
		return Amplicon16S, nil
	case "18S":
		return Amplicon18S, nil
	case "Shotgun", "shotgun":
		return Shotgun, nil
	}
	return "", fmt.Errorf("unknown data type %q (expect 16S, 18S or Shotgun)", s)
}

// Metadata is the record persisted alongside a run so that interrupted
// runs can be continued later.
type Metadata struct {
	DirPath     string `json:"dir_path"`
	DatasetID   string `json:"dataset_id"`
	Type        string `json:"type,omitempty"`
	ReadDataFwd bool   `json:"read_data_fwd"`
	ReadDataRev bool   `json:"read_data_rev"`
}

// ReadSet reconstructs the read layout recorded in the metadata.
func (m Metadata) ReadSet() ReadSet {
	return ReadSet{DirPath: m.DirPath, Fwd: m.ReadDataFwd, Rev: m.ReadDataRev}
}

func SaveMetadata(m Metadata, fileName string) error {
	return saveJSON(m, fileName)
}

func ReadMetadata(fileName string) (Metadata, error) {
	m := Metadata{}
	err := readJSON(fileName, &m)
	return m, err
}

func SaveReadSet(r ReadSet, fileName string) error {
	return saveJSON(r, fileName)
}

func ReadReadSet(fileName string) (ReadSet, error) {
	r := ReadSet{}
	err := readJSON(fileName, &r)
	return r, err
}

func saveJSON(v interface{}, fileName string) error {
	w, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer w.Close()

	ec := json.NewEncoder(w)
	return ec.Encode(v)
}

func readJSON(fileName string, v interface{}) error {
	f, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	dc := json.NewDecoder(f)
	return dc.Decode(v)
}
