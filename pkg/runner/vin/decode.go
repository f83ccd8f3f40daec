package vin

import (
	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/shop"
)

func fill(v *shop.NewVin, d api.DecodedVin) {
	if v.Make == "" && d.Make != nil {
		v.Make = *d.Make
	}
	if v.Model == "" && d.Model != nil {
		v.Model = *d.Model
	}
	if v.Year == 0 && d.Year != nil {
		v.Year = *d.Year
	}
	if v.Trim == "" && d.Trim != nil {
		v.Trim = *d.Trim
	}
}
