package seed

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// medicineRecord is the shape of one catalog entry in the JSON source.
// Only the name is required.
type medicineRecord struct {
	Name        string  `json:"name"`
	GenericName *string `json:"generic_name"`
	Type        *string `json:"type"`
	Power       *string `json:"power"`
	Company     *string `json:"company"`
	Price       *string `json:"price"`
}

// LoadCatalog seeds the medicine catalog from a JSON file. It is a one-time
// seed, not a sync: when the catalog already holds rows the file is left
// untouched, so restarts never re-import or overwrite curated data. Within a
// load, duplicate names are skipped (first write wins). A missing file is
// logged and ignored.
func LoadCatalog(ctx context.Context, medicines *repository.MedicineRepository, path string, log *logger.Logger) error {
	count, err := medicines.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("medicine catalog file not found, skipping seed")
			return nil
		}
		return err
	}

	var records []medicineRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	loaded := 0
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		inserted, err := medicines.Insert(ctx, &repository.Medicine{
			Name:        rec.Name,
			GenericName: rec.GenericName,
			Type:        rec.Type,
			Power:       rec.Power,
			Company:     rec.Company,
			Price:       rec.Price,
		})
		if err != nil {
			return err
		}
		if inserted {
			loaded++
		}
	}

	log.Info().Int("count", loaded).Str("path", path).Msg("seeded medicine catalog")
	return nil
}
