package core

import "math"

// Solar position and clear-sky heat gain for the steady-state thermal
// rating. Follows the IEEE 738 formulation: declination from day of year,
// altitude/azimuth from latitude and hour angle, a clear-atmosphere flux
// polynomial in solar altitude, and an elevation correction. All outputs
// in SI (W/m of conductor).

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// solarDeclinationDeg returns the solar declination in degrees for a day
// of year (1–366).
func solarDeclinationDeg(day int) float64 {
	return 23.46 * math.Sin(degToRad(360.0*(284.0+float64(day))/365.0))
}

// solarPositionDeg returns the solar altitude and azimuth in degrees for
// the given latitude, declination and hour angle (all degrees). Altitude
// is negative when the sun is below the horizon.
func solarPositionDeg(latDeg, declDeg, hourAngleDeg float64) (altDeg, azDeg float64) {
	lat := degToRad(latDeg)
	decl := degToRad(declDeg)
	omega := degToRad(hourAngleDeg)

	sinAlt := math.Cos(lat)*math.Cos(decl)*math.Cos(omega) + math.Sin(lat)*math.Sin(decl)
	altDeg = math.Asin(sinAlt) * 180 / math.Pi

	// Azimuth from the chi variable, with the quadrant constant picked by
	// the sign of chi and the hour angle.
	denom := math.Sin(lat)*math.Cos(omega) - math.Cos(lat)*math.Tan(decl)
	chi := math.Sin(omega) / denom

	var c float64
	switch {
	case hourAngleDeg >= -180 && hourAngleDeg < 0:
		if chi >= 0 {
			c = 0
		} else {
			c = 180
		}
	default:
		if chi >= 0 {
			c = 180
		} else {
			c = 360
		}
	}
	azDeg = c + math.Atan(chi)*180/math.Pi
	return altDeg, azDeg
}

// clearSkyFluxWPerM2 is the total clear-atmosphere solar and sky radiated
// heat flux at sea level, W/m², as a polynomial in solar altitude (degrees).
func clearSkyFluxWPerM2(altDeg float64) float64 {
	const (
		a = -42.2391
		b = 63.8044
		c = -1.9220
		d = 3.46921e-2
		e = -3.61118e-4
		f = 1.94318e-6
		g = -4.07608e-9
	)
	h := altDeg
	return a + h*(b+h*(c+h*(d+h*(e+h*(f+h*g)))))
}

// elevationCorrection scales the sea-level flux for site elevation (m).
func elevationCorrection(elevM float64) float64 {
	return 1 + 1.148e-4*elevM - 1.108e-8*elevM*elevM
}

// solarHeatGainWPerM returns the absorbed solar heat per metre of a
// conductor with projected diameter dM (m). Zero when the sun is below
// the horizon.
func solarHeatGainWPerM(a AmbientCondition, dM, elevM, latDeg, lineAzimuthDeg, absorptivity float64) float64 {
	decl := solarDeclinationDeg(a.DayOfYear)
	hourAngle := 15 * (a.SunHour - 12)

	alt, az := solarPositionDeg(latDeg, decl, hourAngle)
	if alt <= 0 {
		return 0
	}

	flux := clearSkyFluxWPerM2(alt) * elevationCorrection(elevM)
	if flux < 0 {
		flux = 0
	}

	// Effective incidence angle between the sun and the conductor axis.
	theta := math.Acos(math.Cos(degToRad(alt)) * math.Cos(degToRad(az-lineAzimuthDeg)))

	return absorptivity * flux * math.Sin(theta) * dM
}
