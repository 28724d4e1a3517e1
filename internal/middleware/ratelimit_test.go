package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Feature: storefront, Property 59: Rate limiting blocks excessive requests
// Validates: Requirements 21.1
func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			// Create a mock Redis server using miniredis
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			redisClient := redis.NewClient(&redis.Options{
				Addr: mr.Addr(),
			})
			defer redisClient.Close()

			logger, _ := zap.NewDevelopment()

			config := RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "test_rate_limit",
			}

			middleware := RateLimitMiddleware(redisClient, config, logger)

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			clientIP := "192.168.1.100"
			successCount := 0
			blockedCount := 0

			totalRequests := requestsPerWindow + excessRequests

			for i := 0; i < totalRequests; i++ {
				req := httptest.NewRequest("GET", "/test", nil)
				req.RemoteAddr = clientIP
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				if w.Code == http.StatusOK {
					successCount++
				} else if w.Code == http.StatusTooManyRequests {
					blockedCount++
				}
			}

			// Should allow exactly requestsPerWindow requests and block the rest
			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that rate limit headers are set correctly
func TestProperty_RateLimitHeadersAreSet(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rate limit headers are present in responses", prop.ForAll(
		func(requestsPerWindow int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			redisClient := redis.NewClient(&redis.Options{
				Addr: mr.Addr(),
			})
			defer redisClient.Close()

			logger, _ := zap.NewDevelopment()

			config := RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "test_rate_limit_headers",
			}

			middleware := RateLimitMiddleware(redisClient, config, logger)

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = "192.168.1.101"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			hasLimit := w.Header().Get("X-RateLimit-Limit") != ""
			hasRemaining := w.Header().Get("X-RateLimit-Remaining") != ""

			return hasLimit && hasRemaining
		},
		gen.IntRange(5, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Authenticated requests are limited per user, not per address, so a user
// cannot dodge the limit by rotating source addresses.
func TestRateLimit_KeyedByUserWhenAuthenticated(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	config := RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		KeyPrefix:         "test_rate_limit_user",
	}

	middleware := RateLimitMiddleware(redisClient, config, zap.NewNop())
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	user := &domain.User{ID: uuid.New()}
	addresses := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}

	codes := make([]int, 0, len(addresses))
	for _, addr := range addresses {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = addr
		req = req.WithContext(WithUser(req.Context(), user))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request should be limited despite the new address, got %v", codes)
	}
}
