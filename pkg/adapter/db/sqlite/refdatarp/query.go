package refdatarp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite"
	"github.com/pneucontrol/fieldsync/pkg/core/cerr"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"gorm.io/gorm"
)

type gVehicle struct {
	VID       string `gorm:"primaryKey;column:id"`
	TenantID  string `gorm:"column:tenant_id;index"`
	Plate     string `gorm:"column:plate;index"`
	Brand     string
	ModelName string  `gorm:"column:model"`
	KM        float64 `gorm:"column:current_km"`
	Axles     string  `gorm:"column:axle_configuration"` // JSON-encoded
}

func (gv *gVehicle) TableName() string {
	return "vehicles"
}

type gTire struct {
	TID       string `gorm:"primaryKey;column:id"`
	TenantID  string `gorm:"column:tenant_id;index"`
	Serial    string `gorm:"column:serial_number"`
	Brand     string
	ModelName string `gorm:"column:model"`
}

func (gt *gTire) TableName() string {
	return "tires"
}

// jAxle is the JSON shape of one axle in the axle_configuration
// column, matching the backend wire format.
type jAxle struct {
	Kind  string    `json:"type"`
	Dual  bool      `json:"is_dual"`
	Tires []*string `json:"tires"`
}

func newGVehicle(v model.Vehicle) (*gVehicle, error) {
	axles := make([]jAxle, 0, len(v.Axles))
	for _, a := range v.Axles {
		if err := a.Kind.Validate(); err != nil {
			return nil, cerr.Storage(err)
		}
		ja := jAxle{Kind: a.Kind.String(), Dual: a.Dual}
		for _, slot := range a.Slots {
			if slot == "" {
				ja.Tires = append(ja.Tires, nil)
				continue
			}
			slot := slot
			ja.Tires = append(ja.Tires, &slot)
		}
		axles = append(axles, ja)
	}
	b, err := json.Marshal(axles)
	if err != nil {
		return nil, cerr.Storage(
			fmt.Errorf("encoding axle configuration: %w", err),
		)
	}
	return &gVehicle{
		VID:       v.ID,
		TenantID:  v.TenantID,
		Plate:     v.Plate,
		Brand:     v.Brand,
		ModelName: v.Model,
		KM:        v.KM,
		Axles:     string(b),
	}, nil
}

func (gv *gVehicle) Model() (*model.Vehicle, error) {
	var jaxles []jAxle
	if gv.Axles != "" {
		if err := json.Unmarshal([]byte(gv.Axles), &jaxles); err != nil {
			return nil, cerr.Storage(fmt.Errorf(
				"decoding axle configuration of %q: %w", gv.VID, err,
			))
		}
	}
	axles := make([]model.Axle, 0, len(jaxles))
	for _, ja := range jaxles {
		kind, err := model.ParseAxleKind(ja.Kind)
		if err != nil {
			return nil, cerr.Storage(fmt.Errorf(
				"axle kind %q of %q: %w", ja.Kind, gv.VID, err,
			))
		}
		a := model.Axle{Kind: kind, Dual: ja.Dual}
		for _, t := range ja.Tires {
			if t == nil {
				a.Slots = append(a.Slots, "")
				continue
			}
			a.Slots = append(a.Slots, *t)
		}
		axles = append(axles, a)
	}
	return &model.Vehicle{
		ID:       gv.VID,
		TenantID: gv.TenantID,
		Plate:    gv.Plate,
		Brand:    gv.Brand,
		Model:    gv.ModelName,
		KM:       gv.KM,
		Axles:    axles,
	}, nil
}

func newGTire(t model.Tire) *gTire {
	return &gTire{
		TID:       t.ID,
		TenantID:  t.TenantID,
		Serial:    t.Serial,
		Brand:     t.Brand,
		ModelName: t.Model,
	}
}

func (gt *gTire) Model() *model.Tire {
	return &model.Tire{
		ID:       gt.TID,
		TenantID: gt.TenantID,
		Serial:   gt.Serial,
		Brand:    gt.Brand,
		Model:    gt.ModelName,
	}
}

// replaceAll clears both reference tables and repopulates them with
// the given snapshot. It must run within one transaction, so readers
// never observe a partially replaced cache.
func replaceAll(
	ctx context.Context,
	tx *sqlite.Tx,
	vehicles []model.Vehicle,
	tires []model.Tire,
) error {
	gdb := tx.GORM(ctx)
	if err := gdb.Where("1 = 1").Delete(&gVehicle{}).Error; err != nil {
		return cerr.Storage(fmt.Errorf("clearing vehicles: %w", err))
	}
	if err := gdb.Where("1 = 1").Delete(&gTire{}).Error; err != nil {
		return cerr.Storage(fmt.Errorf("clearing tires: %w", err))
	}
	for _, v := range vehicles {
		gv, err := newGVehicle(v)
		if err != nil {
			return err
		}
		if err := gdb.Create(gv).Error; err != nil {
			return cerr.Storage(
				fmt.Errorf("inserting vehicle %q: %w", v.ID, err),
			)
		}
	}
	for _, t := range tires {
		if err := gdb.Create(newGTire(t)).Error; err != nil {
			return cerr.Storage(
				fmt.Errorf("inserting tire %q: %w", t.ID, err),
			)
		}
	}
	return nil
}

func vehicleByPlate[Q sqlite.Queryer](
	ctx context.Context, q Q, tenantID, plate string,
) (*model.Vehicle, error) {
	var gv gVehicle
	err := q.GORM(ctx).Where(
		"tenant_id = ? AND plate = ?", tenantID, plate,
	).First(&gv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cerr.NotFound(
			fmt.Errorf("no cached vehicle with plate %q", plate),
		)
	}
	if err != nil {
		return nil, cerr.Storage(fmt.Errorf("query: %w", err))
	}
	return gv.Model()
}

func vehicleByID[Q sqlite.Queryer](
	ctx context.Context, q Q, id string,
) (*model.Vehicle, error) {
	var gv gVehicle
	err := q.GORM(ctx).Where("id = ?", id).First(&gv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cerr.NotFound(
			fmt.Errorf("no cached vehicle with id %q", id),
		)
	}
	if err != nil {
		return nil, cerr.Storage(fmt.Errorf("query: %w", err))
	}
	return gv.Model()
}

func tireByID[Q sqlite.Queryer](
	ctx context.Context, q Q, id string,
) (*model.Tire, error) {
	var gt gTire
	err := q.GORM(ctx).Where("id = ?", id).First(&gt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cerr.NotFound(
			fmt.Errorf("no cached tire with id %q", id),
		)
	}
	if err != nil {
		return nil, cerr.Storage(fmt.Errorf("query: %w", err))
	}
	return gt.Model(), nil
}
