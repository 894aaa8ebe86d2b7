// Package daterange calcula la ventana de fechas que se envía al backend de
// movimientos. Es cómputo puro: el "ahora" se inyecta para poder probarlo.
package daterange

import "time"

// FormatoBackend el backend es estricto con el esquema: fecha con sufijo
// T00:00:00 fijo, sin zona horaria.
const FormatoBackend = "2006-01-02T00:00:00"

// DateWindow ventana de consulta [From, To], ambas truncadas a medianoche local.
type DateWindow struct {
	From time.Time
	To   time.Time
}

// FromText devuelve la fecha inicial en el formato textual del backend.
func (w DateWindow) FromText() string { return w.From.Format(FormatoBackend) }

// ToText devuelve la fecha final en el formato textual del backend.
func (w DateWindow) ToText() string { return w.To.Format(FormatoBackend) }

// ComputeWindow calcula la ventana de consulta: To = now truncado a medianoche,
// From = now menos monthsBack meses calendario conservando el día del mes y
// recortando al último día válido del mes resultante (31-mar - 1 mes = 28/29-feb).
func ComputeWindow(monthsBack int, now time.Time) DateWindow {
	if monthsBack < 0 {
		monthsBack = 0
	}
	to := truncateToMidnight(now)
	return DateWindow{
		From: subtractMonthsClamped(to, monthsBack),
		To:   to,
	}
}

func truncateToMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// subtractMonthsClamped resta meses calendario con recorte de día.
// No se usa AddDate: éste normaliza el desborde (31-mar - 1 mes = 3-mar),
// que no es la semántica que espera el backend.
func subtractMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, -months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}
