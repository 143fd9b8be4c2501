package domain

import "testing"

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"quiero un presupuesto", true},
		{"me gustaría contratar el servicio", true},
		{"podemos empezar mañana", true},
		{"lo quiero ya", true},
		{"dime el precio exacto", true},
		{"adelante con todo", true},
		{"QUIERO UN PRESUPUESTO", true},
		{"hola, necesito información", false},
		{"qué secciones recomiendas", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := DetectIntent(tt.message); got != tt.want {
			t.Errorf("DetectIntent(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}
