// Command bnbscout monitors short-term rental searches. It fetches
// marketplace listings, collects guest reviews, scores them with an AI
// completion service, and opens an interactive dashboard for filtering
// and rating the results.
package main
