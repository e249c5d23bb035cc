package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL  = "http://localhost:8080"
	rpsGoal  = 5                // RPS - 5
	duration = 10 * time.Second // Тестируем 10 секунд
)

// Приоритеты перебираем по кругу, чтобы нагрузка не была однородной
var priorities = []string{"low", "medium", "high", "critical"}

type bug struct {
	BugID int64 `json:"bug_id"`
}

func main() {
	log.Println("Starting stress test setup...")

	// 1. Подготовка: проверяем, что сервер жив, и создаем затравочный баг
	seedID := setupTestData()

	log.Printf("Setup complete. Seed bug ID: %d. Starting test for %s at %d RPS.", seedID, duration, rpsGoal)

	var wg sync.WaitGroup
	ticker := time.NewTicker(time.Second / time.Duration(rpsGoal))
	defer ticker.Stop()

	// Таймер для ограничения продолжительности теста
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var requestCounter int64
	var successCounter int64

	start := time.Now()

	// 2. Запуск горутин для RPS
	for i := 0; i < int(duration.Seconds()*float64(rpsGoal)); i++ {
		select {
		case <-ctx.Done():
			goto endLoop
		case <-ticker.C:
			wg.Add(1)
			requestCounter++

			priority := priorities[i%len(priorities)]

			go func(n int, priority string) {
				defer wg.Done()

				// 3. Создание бага
				bugID, err := createBug(n, priority)
				if err != nil {
					log.Printf("Error creating bug #%d: %v", n, err)
					return
				}

				// 4. Комментарий к багу
				if err := addComment(bugID); err != nil {
					log.Printf("Error commenting bug %d: %v", bugID, err)
					return
				}

				// 5. Закрытие бага через PATCH (проставляет resolved_at)
				if err := closeBug(bugID); err != nil {
					log.Printf("Error closing bug %d: %v", bugID, err)
					return
				}

				// Счетчик инкрементируют параллельные горутины
				atomic.AddInt64(&successCounter, 1)
			}(i, priority)
		}
	}

endLoop:
	wg.Wait()

	elapsed := time.Since(start)

	// 6. Вывод результатов
	log.Println("--- Stress Test Results ---")
	log.Printf("Duration: %s", elapsed.Round(time.Millisecond))
	log.Printf("Total HTTP Requests Sent (Create + Comment + Close): %d", requestCounter*3)
	log.Printf("Successful Bug Cycles (Create + Comment + Close): %d", successCounter)
	log.Printf("Measured RPS: %.2f (Goal: %d)", float64(requestCounter)/elapsed.Seconds(), rpsGoal)
	log.Printf("Success SLI: %.2f%% (Goal: 99.9%%)", float64(successCounter*3)/float64(requestCounter*3)*100)
}

// --- Helper Functions ---

func setupTestData() int64 {
	// Проверка живости сервера
	resp, err := http.Get(baseURL + "/health")
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Fatal("Health check failed. Is the server running?")
	}
	resp.Body.Close()

	// Затравочный баг подтверждает, что запись в базу работает
	seedID, err := createBug(0, "low")
	if err != nil {
		log.Fatalf("Failed to create seed bug: %v", err)
	}
	return seedID
}

func createBug(n int, priority string) (int64, error) {
	bugData := fmt.Sprintf(`{"title": "Stress bug %d", "description": "Synthetic bug created by the stresser", "priority": %q}`, n, priority)
	resp, err := http.Post(baseURL+"/bugs", "application/json", bytes.NewBufferString(bugData))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to create bug, status: %d, body: %s", resp.StatusCode, body)
	}

	var b bug
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return 0, err
	}
	return b.BugID, nil
}

func addComment(bugID int64) error {
	url := fmt.Sprintf("%s/bugs/%d/comments", baseURL, bugID)
	commentData := fmt.Sprintf(`{"author": "stresser", "comment": "Load test comment for bug %d"}`, bugID)
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(commentData))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to comment bug %d, status: %d", bugID, resp.StatusCode)
	}
	return nil
}

func closeBug(bugID int64) error {
	url := fmt.Sprintf("%s/bugs/%d", baseURL, bugID)
	req, _ := http.NewRequest(http.MethodPatch, url, bytes.NewBufferString(`{"status": "closed"}`))
	req.Header.Set("Content-Type", "application/json")

	client := http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to close bug %d, status: %d", bugID, resp.StatusCode)
	}
	return nil
}
