package holidays

import "time"

// colombiaHolidays returns the Colombian public holidays for one year.
// Ley 51 de 1983 (Ley Emiliani) moves a subset of holidays to the next
// Monday unless they already fall on one.
func colombiaHolidays(year int) Calendar {
	cal := make(Calendar)

	fixed := func(month time.Month, day int, name string) {
		cal[time.Date(year, month, day, 0, 0, 0, 0, time.UTC)] = name
	}
	emiliani := func(date time.Time, name string) {
		cal[nextMonday(date)] = name
	}

	fixed(time.January, 1, "Año Nuevo")
	fixed(time.May, 1, "Día del Trabajo")
	fixed(time.July, 20, "Día de la Independencia")
	fixed(time.August, 7, "Batalla de Boyacá")
	fixed(time.December, 8, "Inmaculada Concepción")
	fixed(time.December, 25, "Navidad")

	easter := easterSunday(year)
	cal[easter.AddDate(0, 0, -3)] = "Jueves Santo"
	cal[easter.AddDate(0, 0, -2)] = "Viernes Santo"

	emiliani(time.Date(year, time.January, 6, 0, 0, 0, 0, time.UTC), "Día de los Reyes Magos")
	emiliani(time.Date(year, time.March, 19, 0, 0, 0, 0, time.UTC), "Día de San José")
	emiliani(time.Date(year, time.June, 29, 0, 0, 0, 0, time.UTC), "San Pedro y San Pablo")
	emiliani(time.Date(year, time.August, 15, 0, 0, 0, 0, time.UTC), "Asunción de la Virgen")
	emiliani(time.Date(year, time.October, 12, 0, 0, 0, 0, time.UTC), "Día de la Raza")
	emiliani(time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC), "Todos los Santos")
	emiliani(time.Date(year, time.November, 11, 0, 0, 0, 0, time.UTC), "Independencia de Cartagena")

	emiliani(easter.AddDate(0, 0, 39), "Ascensión del Señor")
	emiliani(easter.AddDate(0, 0, 60), "Corpus Christi")
	emiliani(easter.AddDate(0, 0, 68), "Sagrado Corazón")

	return cal
}

// easterSunday computes Gregorian Easter with the Anonymous/Meeus
// algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func nextMonday(date time.Time) time.Time {
	if date.Weekday() == time.Monday {
		return date
	}
	offset := (int(time.Monday) - int(date.Weekday()) + 7) % 7
	return date.AddDate(0, 0, offset)
}
