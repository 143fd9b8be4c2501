package domain

import "testing"

func TestScoreSignals(t *testing.T) {
	readyBrief := Brief{SiteType: "tienda", Goal: "vender", Sections: []string{"inicio"}}

	tests := []struct {
		name    string
		current int
		message string
		intent  bool
		brief   Brief
		want    int
	}{
		{"no signals", 0, "hola", false, Brief{}, 0},
		{"intent only", 0, "adelante", true, Brief{}, 40},
		{"commercial only", 0, "cuál es el precio", false, Brief{}, 25},
		{"urgency only", 0, "lo necesito esta semana", false, Brief{}, 10},
		{"ready brief only", 0, "vale", false, readyBrief, 20},
		{"intent plus commercial", 0, "quiero contratar, dime presupuesto", true, Brief{}, 65},
		{"accumulates over turns", 30, "dime el precio", false, Brief{}, 55},
		{"clamps at 100", 80, "presupuesto urgente, quiero ya", true, readyBrief, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.current, tt.message, tt.intent, tt.brief); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReconcileScore(t *testing.T) {
	if got := ReconcileScore(40, 85); got != 85 {
		t.Errorf("model score should win when higher, got %d", got)
	}
	if got := ReconcileScore(65, 10); got != 65 {
		t.Errorf("model must not lower local score, got %d", got)
	}
	if got := ReconcileScore(40, 150); got != 100 {
		t.Errorf("expected clamp to 100, got %d", got)
	}
	if got := ReconcileScore(-5, -10); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}
