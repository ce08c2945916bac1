package inspectionsrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin/serdser"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
)

type rawStartDraftReq struct {
	VehicleID  string  `json:"vehicle_id" binding:"required"`
	OdometerKM float64 `json:"odometer_km" binding:"omitempty,gte=0"`
}

type startDraftReq struct {
	VehicleID  string
	OdometerKM float64
}

func (rs *resource) DserStartDraftReq(c *gin.Context) *startDraftReq {
	req := &rawStartDraftReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &startDraftReq{
		VehicleID:  req.VehicleID,
		OdometerKM: req.OdometerKM,
	}
}

type rawMeasurementReq struct {
	TreadDepthMM float64 `json:"tread_depth_mm" binding:"gte=0"`
	PressurePSI  float64 `json:"pressure_psi" binding:"gte=0"`
	Observation  string  `json:"observation" binding:"omitempty"`
	Status       string  `json:"status" binding:"omitempty,oneof=ok warning critical"`
}

type measurementReq struct {
	TreadDepthMM float64
	PressurePSI  float64
	Observation  string
	Status       *model.Severity
}

func (rs *resource) DserMeasurementReq(c *gin.Context) *measurementReq {
	req := &rawMeasurementReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	val := &measurementReq{
		TreadDepthMM: req.TreadDepthMM,
		PressurePSI:  req.PressurePSI,
		Observation:  req.Observation,
	}
	if req.Status != "" {
		s, err := model.ParseSeverity(req.Status)
		if err != nil {
			var errs map[string][]string
			serdser.AddErr(&errs, "status", err.Error())
			c.JSON(http.StatusBadRequest, errs)
			return nil
		}
		val.Status = &s
	}
	return val
}

type jAxle struct {
	Kind  string    `json:"type"`
	Dual  bool      `json:"is_dual"`
	Tires []*string `json:"tires"`
}

type jVehicle struct {
	ID    string  `json:"id"`
	Plate string  `json:"plate"`
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Axles []jAxle `json:"axle_configuration"`
}

type jVehicleResolution struct {
	Vehicle    jVehicle `json:"vehicle"`
	OdometerKM float64  `json:"odometer_km"`
}

func serVehicle(v *model.Vehicle) jVehicle {
	axles := make([]jAxle, len(v.Axles))
	for i, a := range v.Axles {
		tires := make([]*string, len(a.Slots))
		for j, slot := range a.Slots {
			if slot != "" {
				s := slot
				tires[j] = &s
			}
		}
		axles[i] = jAxle{
			Kind:  a.Kind.String(),
			Dual:  a.Dual,
			Tires: tires,
		}
	}
	return jVehicle{
		ID:    v.ID,
		Plate: v.Plate,
		Brand: v.Brand,
		Model: v.Model,
		Axles: axles,
	}
}

func serVehicleResolution(v *model.Vehicle, km float64) jVehicleResolution {
	return jVehicleResolution{
		Vehicle:    serVehicle(v),
		OdometerKM: km,
	}
}

type jDiagnosis struct {
	Severity     string `json:"severity"`
	Observations string `json:"observations"`
}

type jItem struct {
	TireID       string      `json:"tire_id"`
	TreadDepthMM float64     `json:"tread_depth_mm"`
	PressurePSI  float64     `json:"pressure_psi"`
	Status       string      `json:"status"`
	Observation  string      `json:"observation,omitempty"`
	PhotoURL     string      `json:"photo_url,omitempty"`
	Diagnosis    *jDiagnosis `json:"ai_analysis,omitempty"`
}

func serItem(item model.InspectionItem) jItem {
	j := jItem{
		TireID:       item.TireID,
		TreadDepthMM: item.TreadDepth,
		PressurePSI:  item.Pressure,
		Status:       item.Status.String(),
		Observation:  item.Observation,
		PhotoURL:     item.PhotoURL,
	}
	if d := item.Diagnosis; d != nil {
		j.Diagnosis = &jDiagnosis{
			Severity:     d.Tier,
			Observations: d.Observations,
		}
	}
	return j
}

type jInspection struct {
	CorrelationID string    `json:"correlation_id"`
	VehicleID     string    `json:"vehicle_id"`
	InspectorID   string    `json:"inspector_id"`
	OdometerKM    float64   `json:"odometer_km"`
	Items         []jItem   `json:"items"`
	CapturedAt    time.Time `json:"captured_at"`
}

func serInspection(rec model.PendingInspection) jInspection {
	items := make([]jItem, len(rec.Items))
	for i, item := range rec.Items {
		items[i] = serItem(item)
	}
	return jInspection{
		CorrelationID: rec.CorrelationID.String(),
		VehicleID:     rec.VehicleID,
		InspectorID:   rec.InspectorID,
		OdometerKM:    rec.OdometerKM,
		Items:         items,
		CapturedAt:    rec.CapturedAt,
	}
}

type jFinishResp struct {
	CorrelationID string `json:"correlation_id"`
	Delivered     bool   `json:"delivered"`
}

func serFinishResp(rec *model.PendingInspection, delivered bool) jFinishResp {
	return jFinishResp{
		CorrelationID: rec.CorrelationID.String(),
		Delivered:     delivered,
	}
}
