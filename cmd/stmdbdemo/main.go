// Command stmdbdemo ingests a handful of candlesticks into a scratch data
// directory and walks a query to completion, printing each returned bar.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kestrelmarkets/stmdb/engine"
	"github.com/kestrelmarkets/stmdb/model"
)

func main() {
	dir, err := os.MkdirTemp("", "stmdbdemo-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	e, err := engine.Open(engine.Config{DataDir: dir})
	if err != nil {
		log.Fatal(err)
	}
	defer e.Shutdown()

	data := []model.Candlestick{
		{Timestamp: 0, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 12},
		{Timestamp: 60, Open: 100.5, High: 103, Low: 100, Close: 102, Volume: 18},
		{Timestamp: 120, Open: 102, High: 102.5, Low: 98, Close: 99, Volume: 25},
	}
	if ok := e.Insert(1, "kucoin", "BTCUSDT", data); !ok {
		log.Fatal("insert failed")
	}

	q, err := model.NewQuery(1, []model.SymbolRef{{Exchange: "kucoin", Symbol: "BTCUSDT"}}, nil, 0, 120, 1000)
	if err != nil {
		log.Fatal(err)
	}

	handle := e.StartQuery(1, q)
	for {
		page, err := e.QueryChunk(handle.SessionID, 1000)
		if err != nil {
			log.Fatal(err)
		}

		for _, bar := range page.Bars {
			fmt.Printf("bar@%d: %d series\n", bar.Timestamp, len(bar.Candlesticks))
		}

		if page.Status == engine.StatusComplete {
			break
		}
	}
}
