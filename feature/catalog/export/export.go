package export

import (
	"context"
	"fmt"

	"bandori-index/core/database"
	"bandori-index/core/reconcile"
	"bandori-index/feature/catalog/graph"
	"bandori-index/feature/catalog/models"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const batchSize = 500

// Result summarizes an export.
type Result struct {
	Entities int `json:"entities"`
	Assets   int `json:"assets"`
}

// TableReport lists the expected columns a table lacks.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"`
}

// SchemaReport is the outcome of Verify.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
}

// Exporter writes catalogs into db.
type Exporter struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewExporter creates an Exporter.
func NewExporter(db *gorm.DB, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{db: db, logger: logger}
}

// Migrate creates or updates the catalog tables.
func (e *Exporter) Migrate(ctx context.Context) error {
	if err := e.db.WithContext(ctx).AutoMigrate(&Entity{}, &Asset{}); err != nil {
		return fmt.Errorf("failed to migrate catalog tables: %w", err)
	}
	return nil
}

// Export replaces the catalog tables with the records and assets of g.
func (e *Exporter) Export(ctx context.Context, g *graph.Graph) (Result, error) {
	entities, err := Rows(g)
	if err != nil {
		return Result{}, err
	}
	assets := AssetRows(g.Manifest())

	if err := Write(ctx, e.db, entities, assets); err != nil {
		return Result{}, err
	}

	res := Result{Entities: len(entities), Assets: len(assets)}
	e.logger.Info("Exported catalog", zap.Int("entities", res.Entities), zap.Int("assets", res.Assets))
	return res, nil
}

// Verify compares the live catalog tables with the models.
func (e *Exporter) Verify() (*SchemaReport, error) {
	report := &SchemaReport{Matched: true, Tables: make(map[string]TableReport)}

	for _, model := range []any{&Entity{}, &Asset{}} {
		stmt := &gorm.Statement{DB: e.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		missing, err := database.MissingColumns(e.db, stmt.Schema.Table, stmt.Schema.DBNames)
		if err != nil {
			return nil, err
		}

		table := TableReport{MissingColumns: missing, Status: "ok"}
		if len(missing) > 0 {
			table.Status = "error"
			report.Matched = false
		}
		report.Tables[stmt.Schema.Table] = table
	}
	return report, nil
}

// Write replaces the rows of both tables in one transaction.
func Write(ctx context.Context, db *gorm.DB, entities []Entity, assets []Asset) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&Entity{}).Error; err != nil {
			return fmt.Errorf("failed to clear catalog entities: %w", err)
		}
		if err := all.Delete(&Asset{}).Error; err != nil {
			return fmt.Errorf("failed to clear catalog assets: %w", err)
		}

		if len(entities) > 0 {
			if err := tx.CreateInBatches(entities, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert catalog entities: %w", err)
			}
		}
		if len(assets) > 0 {
			if err := tx.CreateInBatches(assets, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert catalog assets: %w", err)
			}
		}
		return nil
	})
}

// Rows flattens every record of g, in kind then id order.
func Rows(g *graph.Graph) ([]Entity, error) {
	var rows []Entity
	add := func(kind models.Kind, id int, name models.Regional[string], record any) error {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode %s %d: %w", kind, id, err)
		}
		rows = append(rows, Entity{
			Kind:     string(kind),
			EntityID: id,
			NameJP:   name.JP,
			NameEN:   name.EN,
			Payload:  datatypes.JSON(payload),
		})
		return nil
	}

	for _, kind := range models.Kinds {
		for _, id := range g.IDs(kind) {
			var err error
			switch kind {
			case models.KindBands:
				n, _ := g.Band(id)
				err = add(kind, id, n.Name, n.Band)
			case models.KindCards:
				n, _ := g.Card(id)
				err = add(kind, id, n.Name, n.Card)
			case models.KindCharacters:
				n, _ := g.Character(id)
				err = add(kind, id, n.Name, n.Character)
			case models.KindEvents:
				n, _ := g.Event(id)
				err = add(kind, id, n.Name, n.Event)
			case models.KindGachas:
				n, _ := g.Gacha(id)
				err = add(kind, id, n.Name, n.Gacha)
			case models.KindSongs:
				n, _ := g.Song(id)
				err = add(kind, id, n.Title, n.Song)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return rows, nil
}

// AssetRows converts manifest entries to rows.
func AssetRows(entries []graph.AssetEntry) []Asset {
	rows := make([]Asset, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Asset{Type: e.Type, Filename: e.Filename, Kind: string(e.Kind), Pathname: e.Pathname})
	}
	return rows
}

// AssetSource exposes the exported catalog_assets rows as a reconcile source, keyed
// like the manifest.
func AssetSource(db *gorm.DB) reconcile.Source {
	return &assetSource{db: db}
}

type assetSource struct {
	db *gorm.DB
}

func (s *assetSource) Name() string {
	return "database"
}

func (s *assetSource) Load(ctx context.Context) (map[string]string, error) {
	var rows []Asset
	if err := s.db.WithContext(ctx).Select("type", "filename").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog assets: %w", err)
	}
	index := make(map[string]string, len(rows))
	for _, row := range rows {
		index[graph.AssetKey(row.Type, row.Filename)] = row.Filename
	}
	return index, nil
}
