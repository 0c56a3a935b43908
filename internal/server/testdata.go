// internal/server/testdata.go
package server

import (
	"time"

	"email-ledger/internal/models"
)

// sampleProcessRequest is the fixed payload behind POST /test.
func sampleProcessRequest(now time.Time) processRequest {
	return processRequest{
		EmailDetails: models.EmailPayload{
			From:      "cs@email.fanaticscollect.com",
			To:        "user@gmail.com",
			Subject:   "Your Buy Now Sale is Complete!",
			Date:      "2024-01-15T10:30:00Z",
			MessageID: "test123",
			Body: models.EmailBody{
				TextBody: "Your Pokemon Charizard VMAX sale is complete. Sale Price: $150.00, Seller Fees: $15.00, Total Payout: $135.00",
				HTMLBody: "<strong>Pokemon Charizard VMAX</strong><br>SALE PRICE: $150.00<br>SELLER FEES: $15.00<br>TOTAL PAYOUT: $135.00",
			},
			Attachments: []string{},
		},
		ParsedData: map[string]interface{}{
			"emailType":      "fanatics_sale",
			"isFanaticsSale": true,
			"saleDetails": map[string]interface{}{
				"productName": "Pokemon Charizard VMAX",
				"salePrice":   "$150.00",
				"sellerFees":  "$15.00",
				"totalPayout": "$135.00",
			},
			"isPokemonRelated": true,
		},
		Timestamp: now.Format(time.RFC3339),
	}
}
