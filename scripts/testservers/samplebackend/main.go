// Command samplebackend runs a small in-memory backend exposing both query
// styles, for trying querybench against a live server:
//
//	go run ./scripts/testservers/samplebackend -port 8080
//	querybench --base-url http://localhost:8080 --category accounts -u demo -p demo
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type record map[string]any

var dataset = map[string][]record{
	"account": makeRecords("account", 200, func(i int, r record) {
		r["name"] = fmt.Sprintf("Account %03d", i)
		r["industry"] = []string{"retail", "finance", "logistics"}[i%3]
		r["revenue"] = 50_000 + i*7_500
		r["owner_id"] = fmt.Sprintf("u-%02d", i%10)
	}),
	"order": makeRecords("order", 500, func(i int, r record) {
		r["account_id"] = fmt.Sprintf("account-%03d", i%200)
		r["status"] = []string{"open", "shipped", "closed"}[i%3]
		r["total"] = 10 + i%990
		r["placed_at"] = time.Now().Add(-time.Duration(i) * time.Hour).Format(time.RFC3339)
	}),
	"contact": makeRecords("contact", 300, func(i int, r record) {
		r["email"] = fmt.Sprintf("person%03d@example.com", i)
		r["name"] = fmt.Sprintf("Person %03d", i)
	}),
}

func makeRecords(resource string, n int, fill func(int, record)) []record {
	records := make([]record, n)
	for i := range records {
		r := record{
			"id":         fmt.Sprintf("%s-%03d", resource, i),
			"created_at": time.Now().Add(-time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
			"updated_at": time.Now().Format(time.RFC3339),
		}
		fill(i, r)
		records[i] = r
	}
	return records
}

func main() {
	port := flag.Int("port", 8080, "Listening port")
	latency := flag.Duration("latency", 5*time.Millisecond, "Base simulated latency per request")
	queryPenalty := flag.Duration("query-penalty", 10*time.Millisecond, "Extra latency per structured query")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/data/", func(w http.ResponseWriter, r *http.Request) {
		simulate(*latency)
		resource := strings.TrimPrefix(r.URL.Path, "/api/data/")
		records, ok := dataset[resource]
		if !ok {
			http.Error(w, fmt.Sprintf(`{"error":"unknown resource %q"}`, resource), http.StatusNotFound)
			return
		}
		limit := parseLimit(r.URL.Query().Get("limit"), len(records))
		fields := strings.Split(r.URL.Query().Get("fields"), ",")
		writeJSON(w, map[string]any{"records": project(records[:limit], fields)})
	})

	mux.HandleFunc("/api/query", func(w http.ResponseWriter, r *http.Request) {
		simulate(*latency + *queryPenalty)
		if r.Method != http.MethodPost {
			http.Error(w, `{"error":"query requires POST"}`, http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			Queries []struct {
				Entity string   `json:"entity"`
				Fields []string `json:"fields"`
				Limit  int      `json:"limit"`
			} `json:"queries"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, `{"error":"malformed query body"}`, http.StatusBadRequest)
			return
		}

		if len(payload.Queries) == 1 {
			q := payload.Queries[0]
			records := dataset[q.Entity]
			limit := clamp(q.Limit, len(records))
			writeJSON(w, map[string]any{"records": project(records[:limit], q.Fields)})
			return
		}

		results := make([]map[string]any, 0, len(payload.Queries))
		for _, q := range payload.Queries {
			records := dataset[q.Entity]
			limit := clamp(q.Limit, len(records))
			results = append(results, map[string]any{
				"entity":  q.Entity,
				"records": project(records[:limit], q.Fields),
			})
		}
		writeJSON(w, map[string]any{"results": results})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("sample backend listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func simulate(base time.Duration) {
	if base <= 0 {
		return
	}
	jitter := time.Duration(rand.Int63n(int64(base / 2)))
	time.Sleep(base + jitter)
}

func parseLimit(raw string, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return max
	}
	return clamp(n, max)
}

func clamp(n, max int) int {
	if n < 1 || n > max {
		return max
	}
	return n
}

func project(records []record, fields []string) []record {
	wanted := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			wanted[f] = true
		}
	}
	if len(wanted) == 0 {
		return records
	}
	out := make([]record, len(records))
	for i, r := range records {
		projected := record{}
		for k, v := range r {
			if wanted[k] || k == "id" {
				projected[k] = v
			}
		}
		out[i] = projected
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
