package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/lensflow/internal/importer/gears"
	"github.com/MrJamesThe3rd/lensflow/internal/inventory"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

type Service struct {
	gearsImporter *gears.Parser
}

func NewService() *Service {
	return &Service{
		gearsImporter: gears.NewParser(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]inventory.AssetParams, error) {
	var importer Importer

	switch source {
	case SourceGears:
		importer = s.gearsImporter
	default:
		return nil, fmt.Errorf("unknown import source %q: %w", source, model.ErrValidation)
	}

	return importer.Parse(r)
}

// Seed returns the built-in equipment list.
func (s *Service) Seed() ([]inventory.AssetParams, error) {
	return s.gearsImporter.Seed()
}
