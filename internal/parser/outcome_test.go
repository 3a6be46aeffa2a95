package parser

import (
	"testing"

	"github.com/pfrederiksen/boxscores/internal/game"
)

const (
	testLocator = "https://www.hockey-reference.com/boxscores/202301100MTL.html"
	testHome    = "Montreal Canadiens"
	testAway    = "Ottawa Senators"
)

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		want   game.Outcome
		wantOK bool
	}{
		{
			name: "shootout marker on matching file",
			html: `<div id="scores"><div class="game_summary"><a href="/boxscores/202301100MTL.html">Final</a> SO</div></div>`,
			want: game.OutcomeShootout, wantOK: true,
		},
		{
			name: "overtime marker on matching file",
			html: `<div class="scores"><div class="game_summary"><a href="/boxscores/202301100MTL.html">Final</a> <span>OT</span></div></div>`,
			want: game.OutcomeOvertime, wantOK: true,
		},
		{
			name: "no marker is regulation",
			html: `<div class="game_summaries"><div class="game_summary"><a href="/boxscores/202301100MTL.html">Final</a></div></div>`,
			want: game.OutcomeRegulation, wantOK: true,
		},
		{
			name: "matching file wins over earlier team link",
			html: `<div class="game_summaries">
				<div class="game_summary"><a href="/teams/MTL/2023.html">Montreal Canadiens</a> OT</div>
				<div class="game_summary"><a href="/boxscores/202301100MTL.html">Final</a> SO</div></div>`,
			want: game.OutcomeShootout, wantOK: true,
		},
		{
			name: "team name link when file is absent",
			html: `<div class="game_summaries"><div class="game_summary"><a href="/teams/OTT/2023.html">Ottawa Senators</a> OT</div></div>`,
			want: game.OutcomeOvertime, wantOK: true,
		},
		{
			name: "token inside word is not a marker",
			html: `<div class="game_summaries"><div class="game_summary"><a href="/boxscores/202301100MTL.html">Final</a> BOOT SOLD</div></div>`,
			want: game.OutcomeRegulation, wantOK: true,
		},
		{
			name:   "score box scores are not the scoreboard",
			html:   `<div class="scorebox"><div class="scores"><a href="/boxscores/202301100MTL.html">Final</a> SO</div></div>`,
			wantOK: false,
		},
		{
			name:   "game not listed",
			html:   `<div class="game_summaries"><div class="game_summary"><a href="/boxscores/202301100TOR.html">Final</a> OT</div></div>`,
			wantOK: false,
		},
		{
			name:   "no scoreboard",
			html:   `<p>nothing</p>`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyOutcome(mustDoc(t, tt.html), testLocator, testHome, testAway)
			if ok != tt.wantOK {
				t.Fatalf("ClassifyOutcome() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ClassifyOutcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTeamStats_LossKinds(t *testing.T) {
	tests := []struct {
		name      string
		marker    string
		homeScore int
		awayScore int
		wantHome  game.TeamStat
		wantAway  game.TeamStat
	}{
		{
			name: "home wins in shootout", marker: "SO", homeScore: 3, awayScore: 2,
			wantHome: game.TeamStat{TeamName: testHome, IsHome: true, Goals: 3, GoalsAgainst: 2, Wins: 1},
			wantAway: game.TeamStat{TeamName: testAway, Goals: 2, GoalsAgainst: 3, ShootoutLosses: 1},
		},
		{
			name: "away wins in overtime", marker: "OT", homeScore: 1, awayScore: 2,
			wantHome: game.TeamStat{TeamName: testHome, IsHome: true, Goals: 1, GoalsAgainst: 2, OvertimeLosses: 1},
			wantAway: game.TeamStat{TeamName: testAway, Goals: 2, GoalsAgainst: 1, Wins: 1},
		},
		{
			name: "tied", marker: "", homeScore: 2, awayScore: 2,
			wantHome: game.TeamStat{TeamName: testHome, IsHome: true, Goals: 2, GoalsAgainst: 2, Ties: 1},
			wantAway: game.TeamStat{TeamName: testAway, Goals: 2, GoalsAgainst: 2, Ties: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<div class="game_summaries"><div class="game_summary"><a href="/boxscores/202301100MTL.html">Final</a> ` + tt.marker + `</div></div>`
			_, source, lines := ExtractTeamStats(mustDoc(t, html), testLocator, testHome, testAway, tt.homeScore, tt.awayScore)
			if source != game.SourceScoreboard {
				t.Errorf("source = %s, want scoreboard", source)
			}
			if lines[0] != tt.wantAway {
				t.Errorf("away = %+v, want %+v", lines[0], tt.wantAway)
			}
			if lines[1] != tt.wantHome {
				t.Errorf("home = %+v, want %+v", lines[1], tt.wantHome)
			}
		})
	}
}

func TestExtractTeamStats_ScoreOnly(t *testing.T) {
	outcome, source, lines := ExtractTeamStats(mustDoc(t, `<p></p>`), testLocator, testHome, testAway, 4, 1)
	if outcome != game.OutcomeRegulation || source != game.SourceScore {
		t.Errorf("got %s via %s, want REG via score", outcome, source)
	}
	if lines[1].Wins != 1 || lines[0].Losses != 1 {
		t.Errorf("lines = %+v", lines)
	}
}

func TestExtractTeamStats_SeasonRecordNearTeamLink(t *testing.T) {
	html := `<p><a href="/teams/MTL/2023.html">Montreal Canadiens</a> (20-15-3-2-1)</p>
		<p><a href="/teams/OTT/2023.html">Ottawa Senators</a> (18-20-4)</p>`
	_, source, lines := ExtractTeamStats(mustDoc(t, html), testLocator, testHome, testAway, 3, 2)
	if source != game.SourceSeasonRecord {
		t.Fatalf("source = %s, want season_record", source)
	}
	home, away := lines[1], lines[0]
	if home.Wins != 20 || home.Losses != 15 || home.Ties != 3 || home.OvertimeLosses != 2 || home.ShootoutLosses != 1 {
		t.Errorf("home = %+v", home)
	}
	if away.Wins != 18 || away.Losses != 20 || away.OvertimeLosses != 4 || away.Ties != 0 {
		t.Errorf("away = %+v", away)
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		input  string
		want   record
		wantOK bool
	}{
		{"(50-21-11)", record{wins: 50, losses: 21, overtimeLosses: 11}, true},
		{"(10-5)", record{wins: 10, losses: 5}, true},
		{"(30-20-5-3)", record{wins: 30, losses: 20, ties: 5, overtimeLosses: 3}, true},
		{"(30-20-0-3-2)", record{wins: 30, losses: 20, overtimeLosses: 3, shootoutLosses: 2}, true},
		{"Record: (41-30-0-11) overall", record{wins: 41, losses: 30, overtimeLosses: 11}, true},
		{"50-21-11", record{}, false},
		{"", record{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseRecord(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseRecord(%q) = %+v, %v, want %+v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
