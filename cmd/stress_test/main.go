package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/repository"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

const (
	productID = "stress-hoodie"
	sizeName  = "M"
)

func main() {
	initialStock := flag.Int("stock", 20, "units available in the stress size")
	totalRequests := flag.Int("requests", 50, "concurrent order attempts")
	redisAddr := flag.String("redis", os.Getenv("REDIS_ADDR"), "run against redis at this address instead of memory")
	flag.Parse()

	ctx := context.Background()
	logger := zap.NewNop()

	var (
		store port.KVStore
		guard port.IdempotencyGuard
	)
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr, PoolSize: 100})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()

		// Clear previous run data
		rdb.Del(ctx, "kv:"+repository.KeyProducts, "kv:"+repository.KeyOrders)
		r := storage.NewRedisAdapter(rdb)
		store, guard = r, r
	} else {
		m := storage.NewMemoryAdapter()
		store, guard = m, m
	}

	repo := repository.NewKVRepository(store, repository.WithMaxRetries(*totalRequests*2))
	_, err := repo.UpsertProduct(ctx, domain.Product{
		ID:    productID,
		Name:  "Stress Hoodie",
		Image: "https://example.com/hoodie.jpg",
		Price: 100,
		Sizes: []domain.Size{{Name: sizeName, Stock: *initialStock}},
	})
	if err != nil {
		log.Fatalf("failed to set stock: %v", err)
	}

	orderService := service.NewOrderService(repo, repo, guard, nil, logger)

	// Counters
	var successCount atomic.Int32
	var soldOutCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()

			_, err := orderService.PlaceOrder(ctx, service.PlaceOrderRequest{
				RequestID: uuid.NewString(),
				ProductID: productID,
				Size:      sizeName,
				Handle:    fmt.Sprintf("user-%d", userID),
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, service.ErrOutOfStock):
				soldOutCount.Add(1)
			default:
				failCount.Add(1)
				log.Printf("user-%d: %v", userID, err)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	soldOut := soldOutCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", *initialStock)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold out:         %d\n", soldOut)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	expected := min(*initialStock, *totalRequests)
	if int(success) == expected && int(soldOut) == *totalRequests-expected {
		fmt.Printf("PASS: Exactly %d orders succeeded, %d sold out\n", expected, *totalRequests-expected)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d sold out, got %d/%d\n",
			expected, *totalRequests-expected, success, soldOut)
	}

	// Verify final stock and order log
	p, err := repo.FindProduct(ctx, productID)
	if err != nil || p == nil {
		log.Fatalf("failed to read product: %v", err)
	}
	finalStock, _ := p.Size(sizeName)
	orders, err := repo.ListOrders(ctx)
	if err != nil {
		log.Fatalf("failed to read orders: %v", err)
	}
	fmt.Printf("Final Stock:      %d\n", finalStock.Stock)
	fmt.Printf("Stored Orders:    %d\n", len(orders))

	if finalStock.Stock == *initialStock-expected && len(orders) == expected {
		fmt.Println("PASS: Stock and order log agree")
	} else {
		fmt.Printf("FAIL: Expected stock %d and %d orders\n", *initialStock-expected, expected)
	}
}
