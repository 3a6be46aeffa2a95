package game

import (
	"strings"
	"testing"
)

func validRecord() *Record {
	return &Record{
		HomeTeam:       "Boston Bruins",
		AwayTeam:       "Toronto Maple Leafs",
		FinalScoreHome: 3,
		FinalScoreAway: 2,
		GameDate:       "2023-04-15",
		Outcome:        OutcomeRegulation,
		PlayerStats: []PlayerStat{
			{PlayerName: "David Pastrnak", Team: "BOS", Goals: 2, PlusMinus: -1},
			{PlayerName: "Auston Matthews", Team: "TOR", Assists: 1},
		},
		TeamStats: []TeamStat{
			{TeamName: "Toronto Maple Leafs", Goals: 2, GoalsAgainst: 3, Losses: 1},
			{TeamName: "Boston Bruins", IsHome: true, Goals: 3, GoalsAgainst: 2, Wins: 1},
		},
	}
}

func TestRecord_Matchup(t *testing.T) {
	r := validRecord()
	if got := r.Matchup(); got != "Toronto Maple Leafs @ Boston Bruins" {
		t.Errorf("Matchup() = %q", got)
	}
}

func TestRecord_HomeAway(t *testing.T) {
	r := validRecord()
	if home := r.Home(); home == nil || home.TeamName != "Boston Bruins" {
		t.Errorf("Home() = %+v, want Boston Bruins", home)
	}
	if away := r.Away(); away == nil || away.TeamName != "Toronto Maple Leafs" {
		t.Errorf("Away() = %+v, want Toronto Maple Leafs", away)
	}
}

func TestRecord_PlayersForTeam(t *testing.T) {
	r := validRecord()
	if got := r.PlayersForTeam("bos"); len(got) != 1 || got[0].PlayerName != "David Pastrnak" {
		t.Errorf("PlayersForTeam(bos) = %+v", got)
	}
	if got := r.PlayersForTeam("MTL"); len(got) != 0 {
		t.Errorf("PlayersForTeam(MTL) = %+v, want empty", got)
	}
}

func TestRecord_Degraded(t *testing.T) {
	r := validRecord()
	if r.Degraded() {
		t.Error("Degraded() = true for named teams")
	}
	r.HomeTeam = UnknownHomeTeam
	if !r.Degraded() {
		t.Error("Degraded() = false with sentinel home team")
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr string
	}{
		{
			name:   "valid record",
			mutate: func(r *Record) {},
		},
		{
			name:   "no date is allowed",
			mutate: func(r *Record) { r.GameDate = "" },
		},
		{
			name:    "negative score",
			mutate:  func(r *Record) { r.FinalScoreHome = -1 },
			wantErr: "FinalScoreHome",
		},
		{
			name:    "malformed date",
			mutate:  func(r *Record) { r.GameDate = "2023/04/15" },
			wantErr: "GameDate",
		},
		{
			name:    "single team line",
			mutate:  func(r *Record) { r.TeamStats = r.TeamStats[:1] },
			wantErr: "TeamStats",
		},
		{
			name:    "two home lines",
			mutate:  func(r *Record) { r.TeamStats[0].IsHome = true },
			wantErr: "exactly one home",
		},
		{
			name:    "negative shots",
			mutate:  func(r *Record) { r.PlayerStats[0].Shots = -2 },
			wantErr: "Shots",
		},
		{
			name:   "negative plus minus is allowed",
			mutate: func(r *Record) { r.PlayerStats[1].PlusMinus = -4 },
		},
		{
			name:    "unknown outcome",
			mutate:  func(r *Record) { r.Outcome = "FOO" },
			wantErr: "Outcome",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
