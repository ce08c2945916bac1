package remote

import (
	"fmt"

	"github.com/pneucontrol/fieldsync/pkg/core/model"
)

type jVehicle struct {
	ID        string  `json:"id"`
	TenantID  string  `json:"tenant_id"`
	Plate     string  `json:"plate"`
	Brand     string  `json:"brand"`
	ModelName string  `json:"model"`
	KM        float64 `json:"current_km"`
	Axles     []jAxle `json:"axle_configuration"`
}

type jAxle struct {
	Kind  string    `json:"type"`
	Dual  bool      `json:"is_dual"`
	Tires []*string `json:"tires"`
}

type jTire struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	Serial    string `json:"serial_number"`
	Brand     string `json:"brand"`
	ModelName string `json:"model"`
}

type jInspection struct {
	TenantID    string  `json:"tenant_id"`
	VehicleID   string  `json:"vehicle_id"`
	InspectorID string  `json:"inspector_id"`
	OdometerKM  float64 `json:"odometer_km"`
	Items       []jItem `json:"items"`
}

type jItem struct {
	TireID      string     `json:"tire_id"`
	TreadDepth  float64    `json:"tread_depth"`
	Pressure    float64    `json:"pressure"`
	Status      string     `json:"status"`
	Observation string     `json:"observation,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Diagnosis   *jAnalysis `json:"ai_analysis,omitempty"`
}

type jAnalysis struct {
	Severity     string `json:"severity"`
	Observations string `json:"observations"`
}

type jDamageReport struct {
	PhotoURL string    `json:"photo_url"`
	Analysis jAnalysis `json:"analysis"`
}

func (jv *jVehicle) Model() (*model.Vehicle, error) {
	axles := make([]model.Axle, 0, len(jv.Axles))
	for _, ja := range jv.Axles {
		kind, err := model.ParseAxleKind(ja.Kind)
		if err != nil {
			return nil, fmt.Errorf("axle kind %q: %w", ja.Kind, err)
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
		ID:       jv.ID,
		TenantID: jv.TenantID,
		Plate:    jv.Plate,
		Brand:    jv.Brand,
		Model:    jv.ModelName,
		KM:       jv.KM,
		Axles:    axles,
	}, nil
}

func (jt *jTire) Model() *model.Tire {
	return &model.Tire{
		ID:       jt.ID,
		TenantID: jt.TenantID,
		Serial:   jt.Serial,
		Brand:    jt.Brand,
		Model:    jt.ModelName,
	}
}

func newJInspection(insp *model.PendingInspection) (*jInspection, error) {
	items := make([]jItem, 0, len(insp.Items))
	for _, item := range insp.Items {
		if err := item.Status.Validate(); err != nil {
			return nil, fmt.Errorf(
				"item of tire %q: %w", item.TireID, err,
			)
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
			ji.Diagnosis = &jAnalysis{
				Severity:     d.Tier,
				Observations: d.Observations,
			}
		}
		items = append(items, ji)
	}
	return &jInspection{
		TenantID:    insp.TenantID,
		VehicleID:   insp.VehicleID,
		InspectorID: insp.InspectorID,
		OdometerKM:  insp.OdometerKM,
		Items:       items,
	}, nil
}
