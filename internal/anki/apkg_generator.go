package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/flipgrid/internal"
)

// schema is the collection layout (version 11) that Anki imports
const schema = `
CREATE TABLE col (
	id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
	scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
	usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
	models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
	tags text NOT NULL
);
CREATE TABLE notes (
	id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
	mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
	flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
	flags integer NOT NULL, data text NOT NULL
);
CREATE TABLE cards (
	id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
	ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
	type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
	ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
	lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
	odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
);
CREATE TABLE revlog (
	id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
	ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
	factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
);
CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL);
CREATE INDEX ix_notes_csum ON notes (csum);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
`

const cardCSS = `.card { font-family: Arial, sans-serif; font-size: 24px; text-align: center; }
.front { color: #2c3e50; font-weight: bold; }
.back { color: #27ae60; font-weight: bold; }`

// APKGGenerator creates Anki package files (.apkg). Every card becomes a
// note with a forward (front → back) and a reverse card.
type APKGGenerator struct {
	deckName   string
	deckID     int64
	modelID    int64
	frontLabel string
	backLabel  string
	cards      []Card
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	// IDs are timestamps so repeated exports do not collide in Anki
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName:   deckName,
		deckID:     now,
		modelID:    now + 1,
		frontLabel: "Front",
		backLabel:  "Back",
	}
}

// SetLabels names the two text fields of the note type
func (g *APKGGenerator) SetLabels(front, back string) {
	if front != "" {
		g.frontLabel = front
	}
	if back != "" && back != g.frontLabel {
		g.backLabel = back
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// packagedAudio is a card's audio file as stored in the package: under its
// number, with name as the file name notes refer to
type packagedAudio struct {
	name string
	path string
}

// GenerateAPKG writes the package to outputPath
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "flipgrid_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	media, soundNames := g.collectAudio()

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.writeCollection(dbPath, soundNames); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := writePackage(outputPath, dbPath, media); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

// collectAudio returns the audio files to bundle and, per card, the sound
// name its note refers to. Cards whose file is missing get no sound.
func (g *APKGGenerator) collectAudio() ([]packagedAudio, []string) {
	var media []packagedAudio
	soundNames := make([]string, len(g.cards))

	for i, card := range g.cards {
		if card.AudioFile == "" {
			continue
		}
		if _, err := os.Stat(card.AudioFile); err != nil {
			continue
		}
		name := fmt.Sprintf("%04d_%s", i, filepath.Base(card.AudioFile))
		media = append(media, packagedAudio{name: name, path: card.AudioFile})
		soundNames[i] = name
	}
	return media, soundNames
}

func (g *APKGGenerator) writeCollection(dbPath string, soundNames []string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	now := time.Now()
	if err := g.insertCollection(db, now); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := g.insertNotes(tx, now, soundNames); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Collection JSON blobs. Only the keys Anki needs on import are set.

type deckJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Mod       int64  `json:"mod"`
	Usn       int    `json:"usn"`
	Dyn       int    `json:"dyn"`
	Conf      int    `json:"conf"`
	Collapsed bool   `json:"collapsed"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
}

type fieldJSON struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type templateJSON struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Did   *int64 `json:"did"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
}

type modelJSON struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	Usn       int             `json:"usn"`
	Sortf     int             `json:"sortf"`
	Did       int64           `json:"did"`
	Req       [][]interface{} `json:"req"`
	Vers      []int           `json:"vers"`
	Tags      []string        `json:"tags"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Flds      []fieldJSON     `json:"flds"`
	Tmpls     []templateJSON  `json:"tmpls"`
	CSS       string          `json:"css"`
}

type newConfJSON struct {
	Delays        []int `json:"delays"`
	Ints          []int `json:"ints"`
	InitialFactor int   `json:"initialFactor"`
	PerDay        int   `json:"perDay"`
	Order         int   `json:"order"`
	Bury          bool  `json:"bury"`
	Separate      bool  `json:"separate"`
}

type lapseConfJSON struct {
	Delays      []int   `json:"delays"`
	Mult        float64 `json:"mult"`
	MinInt      int     `json:"minInt"`
	LeechFails  int     `json:"leechFails"`
	LeechAction int     `json:"leechAction"`
}

type revConfJSON struct {
	PerDay   int     `json:"perDay"`
	Ease4    float64 `json:"ease4"`
	Fuzz     float64 `json:"fuzz"`
	MaxIvl   int     `json:"maxIvl"`
	IvlFct   float64 `json:"ivlFct"`
	Bury     bool    `json:"bury"`
	MinSpace int     `json:"minSpace"`
}

type deckConfJSON struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Dyn      int           `json:"dyn"`
	New      newConfJSON   `json:"new"`
	Lapse    lapseConfJSON `json:"lapse"`
	Rev      revConfJSON   `json:"rev"`
	Timer    int           `json:"timer"`
	MaxTaken int           `json:"maxTaken"`
	Usn      int           `json:"usn"`
	Mod      int64         `json:"mod"`
	Autoplay bool          `json:"autoplay"`
	Replayq  bool          `json:"replayq"`
}

type colConfJSON struct {
	NextPos       int     `json:"nextPos"`
	EstTimes      bool    `json:"estTimes"`
	ActiveDecks   []int64 `json:"activeDecks"`
	SortType      string  `json:"sortType"`
	SortBackwards bool    `json:"sortBackwards"`
	AddToCur      bool    `json:"addToCur"`
	CurDeck       int64   `json:"curDeck"`
	NewSpread     int     `json:"newSpread"`
	DueCounts     bool    `json:"dueCounts"`
	CollapseTime  int     `json:"collapseTime"`
	TimeLim       int     `json:"timeLim"`
	SchedVer      int     `json:"schedVer"`
	CurModel      string  `json:"curModel"`
}

func newDeck(id int64, name, desc string, mod int64) deckJSON {
	return deckJSON{ID: id, Name: name, Desc: desc, Mod: mod, Conf: 1, ExtendNew: 10, ExtendRev: 50}
}

func (g *APKGGenerator) model(mod int64) modelJSON {
	field := func(name string, ord int) fieldJSON {
		return fieldJSON{Name: name, Ord: ord, Font: "Arial", Size: 20, Media: []string{}}
	}
	front := fmt.Sprintf(`<div class="front">{{%s}}</div>`, g.frontLabel)
	back := fmt.Sprintf(`<div class="back">{{%s}}</div>{{Audio}}`, g.backLabel)
	answer := `{{FrontSide}}<hr id="answer">`

	return modelJSON{
		ID:        g.modelID,
		Name:      "flipgrid vocabulary (Basic + Reverse)",
		Mod:       mod,
		Usn:       -1,
		Did:       g.deckID,
		Req:       [][]interface{}{{0, "all", []int{0}}, {1, "all", []int{1}}},
		Vers:      []int{},
		Tags:      []string{},
		LatexPre:  "\\documentclass[12pt]{article}\n\\begin{document}",
		LatexPost: "\\end{document}",
		Flds:      []fieldJSON{field(g.frontLabel, 0), field(g.backLabel, 1), field("Audio", 2)},
		Tmpls: []templateJSON{
			{Name: "Forward", Ord: 0, Qfmt: front, Afmt: answer + back},
			{Name: "Reverse", Ord: 1, Qfmt: back, Afmt: answer + front},
		},
		CSS: cardCSS,
	}
}

func defaultDeckConf(mod int64) deckConfJSON {
	return deckConfJSON{
		ID:   1,
		Name: "Default",
		New: newConfJSON{
			Delays: []int{1, 10}, Ints: []int{1, 4, 7}, InitialFactor: 2500,
			PerDay: 20, Order: 1, Bury: true, Separate: true,
		},
		Lapse: lapseConfJSON{Delays: []int{10}, MinInt: 1, LeechFails: 8},
		Rev: revConfJSON{
			PerDay: 100, Ease4: 1.3, Fuzz: 0.05, MaxIvl: 36500, IvlFct: 1,
			Bury: true, MinSpace: 1,
		},
		MaxTaken: 60,
		Mod:      mod,
		Autoplay: true,
		Replayq:  true,
	}
}

func (g *APKGGenerator) insertCollection(db *sql.DB, now time.Time) error {
	mod := now.Unix()
	deckKey := strconv.FormatInt(g.deckID, 10)
	modelKey := strconv.FormatInt(g.modelID, 10)

	blobs := []interface{}{
		colConfJSON{
			NextPos: 1, EstTimes: true, ActiveDecks: []int64{1}, SortType: "noteFld",
			AddToCur: true, CurDeck: 1, DueCounts: true, CollapseTime: 1200,
			SchedVer: 1, CurModel: modelKey,
		},
		map[string]modelJSON{modelKey: g.model(mod)},
		map[string]deckJSON{
			"1":     newDeck(1, "Default", "", mod),
			deckKey: newDeck(g.deckID, g.deckName, "Vocabulary exported by flipgrid", mod),
		},
		map[string]deckConfJSON{"1": defaultDeckConf(mod)},
	}

	encoded := make([]interface{}, len(blobs))
	for i, blob := range blobs {
		data, err := json.Marshal(blob)
		if err != nil {
			return err
		}
		encoded[i] = string(data)
	}

	// id crt mod scm ver dty usn ls conf models decks dconf tags
	args := append([]interface{}{1, mod, mod * 1000, mod * 1000, 11, 0, 0, 0}, encoded...)
	args = append(args, "{}")
	_, err := db.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	return err
}

func (g *APKGGenerator) insertNotes(tx *sql.Tx, now time.Time, soundNames []string) error {
	base := now.UnixMilli()
	mod := now.Unix()

	for i, card := range g.cards {
		// Leave room for the two card IDs after each note ID
		noteID := base + int64(i*3)

		sound := ""
		if soundNames[i] != "" {
			sound = "[sound:" + soundNames[i] + "]"
		}
		fields := strings.Join([]string{card.Front, card.Back, sound}, "\x1f")
		guid := "fg_" + internal.GenerateCardID(i, card.Front, card.Back)

		// id guid mid mod usn tags flds sfld csum flags data
		if _, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID, guid, g.modelID, mod, -1, "", fields, card.Front, 0, 0, ""); err != nil {
			return fmt.Errorf("failed to insert note %d: %w", i, err)
		}

		for ord := 0; ord < 2; ord++ {
			// New cards: type and queue 0, due is the position
			if _, err := tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				noteID+1+int64(ord), noteID, g.deckID, ord, mod, -1,
				0, 0, i*2+ord,
				0, 0, 0, 0, 0, 0, 0, 0, ""); err != nil {
				return fmt.Errorf("failed to insert card %d of note %d: %w", ord, i, err)
			}
		}
	}
	return nil
}

// writePackage zips the collection, the media map and the numbered media
// files into outputPath
func writePackage(outputPath, dbPath string, media []packagedAudio) (err error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)
	if err := addFile(zw, "collection.anki2", dbPath); err != nil {
		return err
	}

	mapping := make(map[string]string, len(media))
	for i, m := range media {
		mapping[strconv.Itoa(i)] = m.name
	}
	w, err := zw.Create("media")
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(mapping); err != nil {
		return err
	}

	for i, m := range media {
		if err := addFile(zw, strconv.Itoa(i), m.path); err != nil {
			return fmt.Errorf("failed to add audio file %s: %w", m.path, err)
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
