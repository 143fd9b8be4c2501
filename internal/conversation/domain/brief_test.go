package domain

import (
	"strings"
	"testing"
)

func TestMergeBriefPrefersIncoming(t *testing.T) {
	current := Brief{SiteType: "corporativa", Goal: "captar clientes"}
	incoming := Brief{Goal: "vender online", Sections: []string{"inicio", "tienda"}}

	merged := MergeBrief(current, incoming)

	if merged.SiteType != "corporativa" {
		t.Errorf("expected site type preserved, got %q", merged.SiteType)
	}
	if merged.Goal != "vender online" {
		t.Errorf("expected incoming goal to win, got %q", merged.Goal)
	}
	if len(merged.Sections) != 2 {
		t.Errorf("expected incoming sections, got %v", merged.Sections)
	}
}

func TestMergeBriefEmptyIncomingIsIdentity(t *testing.T) {
	current := Brief{
		SiteType: "tienda",
		Goal:     "vender",
		Sections: []string{"inicio"},
		Timeline: "esta semana",
		Budget:   "1500",
	}

	merged := MergeBrief(current, Brief{})

	if merged.SiteType != current.SiteType || merged.Goal != current.Goal ||
		merged.Timeline != current.Timeline || merged.Budget != current.Budget {
		t.Errorf("merge with empty brief changed fields: %+v", merged)
	}
	if len(merged.Sections) != 1 {
		t.Errorf("merge with empty brief changed sections: %v", merged.Sections)
	}
}

func TestBriefReady(t *testing.T) {
	tests := []struct {
		name  string
		brief Brief
		want  bool
	}{
		{"complete", Brief{SiteType: "tienda", Goal: "vender", Sections: []string{"inicio"}}, true},
		{"missing goal", Brief{SiteType: "tienda", Sections: []string{"inicio"}}, false},
		{"missing sections", Brief{SiteType: "tienda", Goal: "vender"}, false},
		{"empty", Brief{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.brief.Ready(); got != tt.want {
				t.Errorf("Ready() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWhatsAppSummary(t *testing.T) {
	brief := Brief{SiteType: "portfolio", Goal: "mostrar trabajos", Sections: []string{"inicio", "galeria"}}
	got := brief.WhatsAppSummary()

	if !strings.HasPrefix(got, "Resumen del briefing:") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "- Tipo de web: portfolio") {
		t.Errorf("missing site type line: %q", got)
	}
	if !strings.Contains(got, "- Secciones: inicio, galeria") {
		t.Errorf("missing sections line: %q", got)
	}
	if !strings.Contains(got, "- Plazo: sin definir") {
		t.Errorf("missing timeline placeholder: %q", got)
	}
	if !strings.Contains(got, "- Presupuesto: sin definir") {
		t.Errorf("missing budget placeholder: %q", got)
	}
}
