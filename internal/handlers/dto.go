package handlers

import (
	"time"

	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/model"
)

type appointmentJSON struct {
	ID         string   `json:"id"`
	UserID     string   `json:"userId"`
	ProviderID string   `json:"providerId"`
	ServiceID  string   `json:"serviceId,omitempty"`
	StartAt    string   `json:"startAt"`
	EndAt      string   `json:"endAt"`
	Status     string   `json:"status"`
	FinalPrice *float64 `json:"finalPrice,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

func toAppointmentJSON(appt model.Appointment) appointmentJSON {
	return appointmentJSON{
		ID:         appt.ID,
		UserID:     appt.UserID,
		ProviderID: appt.ProviderID,
		ServiceID:  appt.ServiceID,
		StartAt:    appt.StartAt.UTC().Format(time.RFC3339),
		EndAt:      appt.EndAt.UTC().Format(time.RFC3339),
		Status:     string(appt.Status),
		FinalPrice: appt.FinalPrice,
		CreatedAt:  appt.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toAppointmentList(appts []model.Appointment) []appointmentJSON {
	out := make([]appointmentJSON, 0, len(appts))
	for _, appt := range appts {
		out = append(out, toAppointmentJSON(appt))
	}
	return out
}

type pageJSON struct {
	Items    []appointmentJSON `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Total    int               `json:"total"`
}

func toPageJSON(p booking.Page) pageJSON {
	return pageJSON{
		Items:    toAppointmentList(p.Items),
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
	}
}

type workingHoursJSON struct {
	ID        string `json:"id,omitempty"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func toWorkingHoursList(items []model.WorkingHours) []workingHoursJSON {
	out := make([]workingHoursJSON, 0, len(items))
	for _, wh := range items {
		out = append(out, workingHoursJSON{
			ID:        wh.ID,
			Weekday:   wh.Weekday,
			StartTime: wh.StartTime,
			EndTime:   wh.EndTime,
		})
	}
	return out
}

type timeOffJSON struct {
	ID       string `json:"id"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

func toTimeOffList(items []model.TimeOff) []timeOffJSON {
	out := make([]timeOffJSON, 0, len(items))
	for _, t := range items {
		out = append(out, timeOffJSON{
			ID:       t.ID,
			FromDate: t.FromDate.Format(time.DateOnly),
			ToDate:   t.ToDate.Format(time.DateOnly),
		})
	}
	return out
}
