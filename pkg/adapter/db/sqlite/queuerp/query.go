package queuerp

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite"
	"github.com/pneucontrol/fieldsync/pkg/core/cerr"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
)

type gInspection struct {
	RowID         int64  `gorm:"primaryKey;autoIncrement;column:row_id"`
	CorrelationID string `gorm:"column:correlation_id;uniqueIndex"`
	TenantID      string `gorm:"column:tenant_id;index"`
	VehicleID     string `gorm:"column:vehicle_id"`
	InspectorID   string `gorm:"column:inspector_id"`
	OdometerKM    float64
	Items         string `gorm:"column:items"` // JSON-encoded, immutable
	CapturedAt    time.Time
	Delivered     bool `gorm:"column:delivered;index"`
}

func (gi *gInspection) TableName() string {
	return "pending_inspections"
}

// jItem is the JSON shape of one item in the items column, matching
// the backend wire format.
type jItem struct {
	TireID      string      `json:"tire_id"`
	TreadDepth  float64     `json:"tread_depth"`
	Pressure    float64     `json:"pressure"`
	Status      string      `json:"status"`
	Observation string      `json:"observation,omitempty"`
	PhotoURL    string      `json:"photo_url,omitempty"`
	Diagnosis   *jDiagnosis `json:"ai_analysis,omitempty"`
}

type jDiagnosis struct {
	Severity     string `json:"severity"`
	Observations string `json:"observations"`
}

func encodeItems(items []model.InspectionItem) (string, error) {
	jitems := make([]jItem, 0, len(items))
	for _, item := range items {
		if err := item.Status.Validate(); err != nil {
			return "", cerr.Storage(err)
		}
		ji := jItem{
			TireID:      item.TireID,
			TreadDepth:  item.TreadDepth,
			Pressure:    item.Pressure,
			Status:      item.Status.String(),
			Observation: item.Observation,
			PhotoURL:    item.PhotoURL,
		}
		if d := item.Diagnosis; d != nil {
			ji.Diagnosis = &jDiagnosis{
				Severity:     d.Tier,
				Observations: d.Observations,
			}
		}
		jitems = append(jitems, ji)
	}
	b, err := json.Marshal(jitems)
	if err != nil {
		return "", cerr.Storage(
			fmt.Errorf("encoding inspection items: %w", err),
		)
	}
	return string(b), nil
}

func decodeItems(encoded string) ([]model.InspectionItem, error) {
	var jitems []jItem
	if err := json.Unmarshal([]byte(encoded), &jitems); err != nil {
		return nil, cerr.Storage(
			fmt.Errorf("decoding inspection items: %w", err),
		)
	}
	items := make([]model.InspectionItem, 0, len(jitems))
	for _, ji := range jitems {
		status, err := model.ParseSeverity(ji.Status)
		if err != nil {
			return nil, cerr.Storage(
				fmt.Errorf("item status %q: %w", ji.Status, err),
			)
		}
		item := model.InspectionItem{
			TireID:      ji.TireID,
			TreadDepth:  ji.TreadDepth,
			Pressure:    ji.Pressure,
			Status:      status,
			Observation: ji.Observation,
			PhotoURL:    ji.PhotoURL,
		}
		if ji.Diagnosis != nil {
			item.Diagnosis = &model.Diagnosis{
				Tier:         ji.Diagnosis.Severity,
				Observations: ji.Diagnosis.Observations,
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (gi *gInspection) Model() (*model.PendingInspection, error) {
	cid, err := uuid.Parse(gi.CorrelationID)
	if err != nil {
		return nil, cerr.Storage(fmt.Errorf(
			"correlation id %q of row %d: %w",
			gi.CorrelationID, gi.RowID, err,
		))
	}
	items, err := decodeItems(gi.Items)
	if err != nil {
		return nil, err
	}
	return &model.PendingInspection{
		RowID:         gi.RowID,
		CorrelationID: cid,
		TenantID:      gi.TenantID,
		VehicleID:     gi.VehicleID,
		InspectorID:   gi.InspectorID,
		OdometerKM:    gi.OdometerKM,
		Items:         items,
		CapturedAt:    gi.CapturedAt,
		Delivered:     gi.Delivered,
	}, nil
}

func enqueue[Q sqlite.Queryer](
	ctx context.Context, q Q, insp *model.PendingInspection,
) error {
	items, err := encodeItems(insp.Items)
	if err != nil {
		return err
	}
	gi := &gInspection{
		CorrelationID: insp.CorrelationID.String(),
		TenantID:      insp.TenantID,
		VehicleID:     insp.VehicleID,
		InspectorID:   insp.InspectorID,
		OdometerKM:    insp.OdometerKM,
		Items:         items,
		CapturedAt:    insp.CapturedAt,
		Delivered:     false,
	}
	if err := q.GORM(ctx).Create(gi).Error; err != nil {
		return cerr.Storage(
			fmt.Errorf("inserting pending inspection: %w", err),
		)
	}
	insp.RowID = gi.RowID
	return nil
}

func listPending[Q sqlite.Queryer](
	ctx context.Context, q Q,
) ([]model.PendingInspection, error) {
	var rows []gInspection
	err := q.GORM(ctx).Where(
		"delivered = ?", false,
	).Order("row_id ASC").Find(&rows).Error
	if err != nil {
		return nil, cerr.Storage(fmt.Errorf("query: %w", err))
	}
	pending := make([]model.PendingInspection, 0, len(rows))
	for i := range rows {
		insp, err := rows[i].Model()
		if err != nil {
			return nil, err
		}
		pending = append(pending, *insp)
	}
	return pending, nil
}

func markDelivered[Q sqlite.Queryer](
	ctx context.Context, q Q, rowID int64,
) error {
	err := q.GORM(ctx).Model(&gInspection{}).Where(
		"row_id = ?", rowID,
	).Update("delivered", true).Error
	if err != nil {
		return cerr.Storage(fmt.Errorf(
			"marking row %d as delivered: %w", rowID, err,
		))
	}
	return nil
}
