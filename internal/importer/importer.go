package importer

import (
	"io"

	"github.com/MrJamesThe3rd/lensflow/internal/inventory"
)

type Source string

const (
	SourceGears Source = "gears"
)

type Importer interface {
	Parse(r io.Reader) ([]inventory.AssetParams, error)
}
