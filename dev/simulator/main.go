// Command simulator drives randomized deposit/withdraw/transfer traffic
// against a running instance, adapted from the teacher's src/simulator
// load generator to this module's account/amount shapes (int64 account ids,
// decimal-string amounts, one user per created account).
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

var baseURL = getenv("BASE_URL", "http://localhost:8080")

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func post(path string, body interface{}) (*http.Response, time.Duration, error) {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(data))
	return resp, time.Since(start), err
}

func createAccount(userID int64) (int64, error) {
	resp, _, err := post("/accounts", map[string]interface{}{
		"user_id": userID, "account_type": "checking", "currency": "USD",
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	var acc struct {
		ID int64 `json:"ID"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&acc); err != nil {
		return 0, err
	}
	return acc.ID, nil
}

func deposit(accountID int64, amount string) {
	resp, duration, err := post(fmt.Sprintf("/accounts/%d/deposit", accountID), map[string]string{"amount": amount})
	logResult("deposit", resp, duration, err)
}

func withdraw(accountID int64, amount string) {
	resp, duration, err := post(fmt.Sprintf("/accounts/%d/withdraw", accountID), map[string]string{"amount": amount})
	logResult("withdraw", resp, duration, err)
}

func transfer(from, to int64, amount string) {
	resp, duration, err := post("/transfer", map[string]interface{}{
		"sender_account_id": from, "receiver_account_id": to, "amount": amount,
	})
	logResult("transfer", resp, duration, err)
}

func logResult(op string, resp *http.Response, duration time.Duration, err error) {
	if err != nil {
		log.Printf("%s error: %v", op, err)
		return
	}
	defer resp.Body.Close()
	log.Printf("%s status=%d duration=%s", op, resp.StatusCode, duration)
}

func randomAmount(max int) string {
	return fmt.Sprintf("%d.00", rand.Intn(max)+1)
}

func randomOp(ids []int64) {
	switch rand.Intn(3) {
	case 0:
		deposit(ids[rand.Intn(len(ids))], randomAmount(100))
	case 1:
		withdraw(ids[rand.Intn(len(ids))], randomAmount(50))
	case 2:
		from := ids[rand.Intn(len(ids))]
		to := ids[rand.Intn(len(ids))]
		for to == from {
			to = ids[rand.Intn(len(ids))]
		}
		transfer(from, to, randomAmount(30))
	}
}

func main() {
	const (
		numAccounts = 100
		totalOps    = 10000
		blockSize   = 100
		blockPause  = 100 * time.Millisecond
	)

	ids := make([]int64, 0, numAccounts)
	for i := 0; i < numAccounts; i++ {
		id, err := createAccount(int64(i + 1))
		if err != nil {
			log.Fatalf("cannot create account for user %d: %v", i+1, err)
		}
		ids = append(ids, id)
		deposit(id, "1000.00")
	}

	for sent := 0; sent < totalOps; {
		var wg sync.WaitGroup
		for i := 0; i < blockSize && sent < totalOps; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				randomOp(ids)
			}()
			sent++
		}
		wg.Wait()
		time.Sleep(blockPause)
	}
}
