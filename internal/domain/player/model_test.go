package player

import "testing"

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
		ok   bool
	}{
		{"QB", PositionQuarterback, true},
		{"qb", PositionQuarterback, true},
		{" rb ", PositionRunningBack, true},
		{"WR", PositionWideReceiver, true},
		{"TE", PositionTightEnd, true},
		{"K", PositionKicker, true},
		{"PK", PositionKicker, true},
		{"DST", PositionDefense, true},
		{"D/ST", PositionDefense, true},
		{"DEF", PositionDefense, true},
		{"D", PositionDefense, true},
		{"FB", Position("FB"), false},
		{"", Position(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizePosition(tt.in)
			if ok != tt.ok {
				t.Fatalf("NormalizePosition(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("NormalizePosition(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		pos  Position
		want Class
		ok   bool
	}{
		{PositionQuarterback, ClassOffense, true},
		{PositionRunningBack, ClassOffense, true},
		{PositionWideReceiver, ClassOffense, true},
		{PositionTightEnd, ClassOffense, true},
		{PositionKicker, ClassKicker, true},
		{PositionDefense, ClassDefense, true},
		{Position("FB"), "", false},
	}

	for _, tt := range tests {
		got, ok := ClassOf(tt.pos)
		if ok != tt.ok {
			t.Fatalf("ClassOf(%q) ok = %v, want %v", tt.pos, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("ClassOf(%q) = %q, want %q", tt.pos, got, tt.want)
		}
	}
}

func TestPlayerValidate(t *testing.T) {
	valid := Player{ID: "p1", Name: "Joe Burrow", TeamID: "CIN", Position: PositionQuarterback}

	tests := []struct {
		name    string
		mutate  func(*Player)
		wantErr bool
	}{
		{
			name:    "valid player",
			mutate:  func(_ *Player) {},
			wantErr: false,
		},
		{
			name: "missing id",
			mutate: func(p *Player) {
				p.ID = ""
			},
			wantErr: true,
		},
		{
			name: "missing name",
			mutate: func(p *Player) {
				p.Name = ""
			},
			wantErr: true,
		},
		{
			name: "missing team",
			mutate: func(p *Player) {
				p.TeamID = ""
			},
			wantErr: true,
		},
		{
			name: "unknown position",
			mutate: func(p *Player) {
				p.Position = Position("XX")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestFlexEligible(t *testing.T) {
	for _, pos := range []Position{PositionRunningBack, PositionWideReceiver, PositionTightEnd} {
		if _, ok := FlexEligible[pos]; !ok {
			t.Fatalf("expected %q to be flex eligible", pos)
		}
	}
	for _, pos := range []Position{PositionQuarterback, PositionKicker, PositionDefense} {
		if _, ok := FlexEligible[pos]; ok {
			t.Fatalf("expected %q not to be flex eligible", pos)
		}
	}
}
