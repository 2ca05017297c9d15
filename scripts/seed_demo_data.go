//go:build ignore

// Seeds a handful of municipalities, employers, and contacts so the API has
// something to show on a fresh database.
//
//	DATABASE_URL=postgres://... go run scripts/seed_demo_data.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type seedTarget struct {
	name     string
	typ      string
	sector   string
	province string
	website  string
	email    string
	notes    string
}

type seedContact struct {
	target   string
	fullName string
	role     string
	email    string
}

var seedTargets = []seedTarget{
	{"Gemeente Ede", "municipality", "overheid", "Gelderland", "https://www.ede.nl", "info@ede.nl", "digitalisering programma gestart in 2024"},
	{"Gemeente Apeldoorn", "municipality", "overheid", "Gelderland", "https://www.apeldoorn.nl", "info@apeldoorn.nl", "smart city pilot lopend"},
	{"Gemeente Zwolle", "municipality", "overheid", "Overijssel", "https://www.zwolle.nl", "postbus@zwolle.nl", ""},
	{"Kadaster", "employer", "geo-informatie", "Gelderland", "https://www.kadaster.nl", "", "gis en data intensief"},
	{"Waterschap Vallei en Veluwe", "employer", "waterbeheer", "Gelderland", "https://www.vallei-veluwe.nl", "info@vallei-veluwe.nl", ""},
}

var seedContacts = []seedContact{
	{"Gemeente Ede", "Anna de Vries", "Programmamanager Digitalisering", "a.devries@ede.nl"},
	{"Gemeente Ede", "Jan Bakker", "Informatiemanager", ""},
	{"Gemeente Apeldoorn", "Pieter Smit", "CIO", "p.smit@apeldoorn.nl"},
	{"Kadaster", "Sophie Jansen", "Teamlead GIS", "s.jansen@kadaster.nl"},
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	ids := make(map[string]string, len(seedTargets))

	for _, t := range seedTargets {
		var id string
		err := db.QueryRow(`SELECT id FROM targets WHERE name = $1`, t.name).Scan(&id)
		if err == sql.ErrNoRows {
			id = uuid.New().String()
			_, err = db.Exec(`
				INSERT INTO targets (id, name, type, sector, province, website, general_email, notes, status, source, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'new', 'seed', $9)`,
				id, t.name, t.typ, t.sector, t.province, t.website, t.email, t.notes, now)
			if err != nil {
				log.Fatalf("insert target %q: %v", t.name, err)
			}
			fmt.Printf("created target %s (%s)\n", t.name, id)
		} else if err != nil {
			log.Fatalf("lookup target %q: %v", t.name, err)
		} else {
			fmt.Printf("target %s already present, skipping\n", t.name)
		}
		ids[t.name] = id
	}

	for _, c := range seedContacts {
		targetID, ok := ids[c.target]
		if !ok {
			log.Fatalf("contact %q references unknown target %q", c.fullName, c.target)
		}
		var existing string
		err := db.QueryRow(`SELECT id FROM contacts WHERE target_id = $1 AND full_name = $2`, targetID, c.fullName).Scan(&existing)
		if err == sql.ErrNoRows {
			confidence := "low"
			if c.email != "" {
				confidence = "high"
			}
			_, err = db.Exec(`
				INSERT INTO contacts (id, target_id, full_name, role, email, confidence_score, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.New().String(), targetID, c.fullName, c.role, c.email, confidence, now)
			if err != nil {
				log.Fatalf("insert contact %q: %v", c.fullName, err)
			}
			fmt.Printf("  created contact %s\n", c.fullName)
		} else if err != nil {
			log.Fatalf("lookup contact %q: %v", c.fullName, err)
		}
	}

	fmt.Println("seed complete")
}
