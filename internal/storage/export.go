package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/sim"
)

var csvHeader = []string{
	"step", "time", "dt",
	"total_power", "battery_power", "generator_power", "thrust",
	"charge", "remaining_capacity", "bank_voltage", "remaining_fuel", "weight",
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func WriteCSV(w io.Writer, records []dynamo.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Step),
			formatFloat(r.Time),
			formatFloat(r.Dt),
			formatFloat(r.TotalPowerDraw),
			formatFloat(r.BatteryPowerDraw),
			formatFloat(r.GeneratorPowerDraw),
			formatFloat(r.Thrust),
			formatFloat(r.ChargePercentage),
			formatFloat(r.RemainingCapacity),
			formatFloat(r.BankVoltage),
			formatFloat(r.RemainingFuel),
			formatFloat(r.Weight),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]dynamo.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []dynamo.Record{}, nil
	}

	records := make([]dynamo.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		step, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		vals := make([]float64, len(row)-1)
		for j, field := range row[1:] {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, csvHeader[j+1], err)
			}
		}
		records = append(records, dynamo.Record{
			StepResult: dynamo.StepResult{
				TotalPowerDraw:     vals[2],
				BatteryPowerDraw:   vals[3],
				GeneratorPowerDraw: vals[4],
				Thrust:             vals[5],
			},
			Step:              step,
			Time:              vals[0],
			Dt:                vals[1],
			ChargePercentage:  vals[6],
			RemainingCapacity: vals[7],
			BankVoltage:       vals[8],
			RemainingFuel:     vals[9],
			Weight:            vals[10],
		})
	}
	return records, nil
}

type ExportData struct {
	Name       string             `json:"name"`
	Dt         float64            `json:"dt"`
	Reason     sim.StopReason     `json:"reason"`
	Steps      int                `json:"steps"`
	FlightTime float64            `json:"flight_time"`
	Metrics    map[string]float64 `json:"metrics"`
	Records    []dynamo.Record    `json:"records"`
}

func ExportJSON(w io.Writer, name string, dt float64, result *sim.Result) error {
	data := ExportData{
		Name:       name,
		Dt:         dt,
		Reason:     result.Reason,
		Steps:      result.StepsTaken,
		FlightTime: result.FlightTime,
		Metrics:    result.Metrics,
		Records:    result.Records,
	}
	if data.Records == nil {
		data.Records = []dynamo.Record{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
