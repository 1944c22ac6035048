package functions

import "github.com/quadfusion/engine/model"

func init() {
	register("YEAR", Immutable, dateTimePart(func(v model.Value) float64 { return float64(v.Time.Year()) }))
	register("MONTH", Immutable, dateTimePart(func(v model.Value) float64 { return float64(v.Time.Month()) }))
	register("DAY", Immutable, dateTimePart(func(v model.Value) float64 { return float64(v.Time.Day()) }))
	register("HOURS", Immutable, dateTimePart(func(v model.Value) float64 { return float64(v.Time.Hour()) }))
	register("MINUTES", Immutable, dateTimePart(func(v model.Value) float64 { return float64(v.Time.Minute()) }))
	register("SECONDS", Immutable, dateTimePart(func(v model.Value) float64 {
		return float64(v.Time.Second()) + float64(v.Time.Nanosecond())/1e9
	}))
	register("TIMEZONE", Immutable, func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("TIMEZONE takes exactly one argument")
		}
		if !isTemporal(args[0]) {
			return model.Expected[model.Value]("TIMEZONE argument is not a date/time value")
		}
		_, offset := args[0].Time.Zone()
		return model.OK(model.Value{Kind: model.ValueDuration, Dur: model.Duration{Seconds: float64(offset)}})
	})
	register("TZ", Immutable, func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("TZ takes exactly one argument")
		}
		if !isTemporal(args[0]) {
			return model.Expected[model.Value]("TZ argument is not a date/time value")
		}
		name, _ := args[0].Time.Zone()
		if name == "UTC" {
			name = "Z"
		}
		return model.OK(model.Value{Kind: model.ValueString, Text: name})
	})
}

func isTemporal(v model.Value) bool {
	switch v.Kind {
	case model.ValueDateTime, model.ValueDate, model.ValueTime:
		return true
	default:
		return false
	}
}

func dateTimePart(extract func(model.Value) float64) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("date/time accessor takes exactly one argument")
		}
		if !isTemporal(args[0]) {
			return model.Expected[model.Value]("argument is not a date/time value")
		}
		return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: extract(args[0]), NumKind: model.NumericInteger})
	}
}
