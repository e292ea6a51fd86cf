// Package graph projects completed money movements into Neo4j so analysts can
// follow funds between marketplace users.
package graph

import (
	"context"
	"fmt"

	"africonnect/internal/escrow/models"
	pgraph "africonnect/internal/platform/graph"
)

const projectCypher = `
MERGE (s:User {id: $sender})
MERGE (r:User {id: $recipient})
MERGE (s)-[p:PAID {tx_id: $tx_id}]->(r)
SET p.type = $type,
    p.amount = $amount,
    p.currency = $currency,
    p.contract_id = $contract_id,
    p.at = datetime($at)`

// Projector writes one PAID edge per completed transaction. MERGE on tx_id
// makes a replayed projection a no-op.
type Projector struct {
	client pgraph.Client
}

func NewProjector(client pgraph.Client) *Projector {
	return &Projector{client: client}
}

func (p *Projector) ProjectTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.Status != models.StatusCompleted {
		return nil
	}
	contractID := ""
	if tx.ContractID != nil {
		contractID = tx.ContractID.String()
	}
	params := map[string]any{
		"sender":      tx.SenderID.String(),
		"recipient":   tx.RecipientID.String(),
		"tx_id":       tx.ID.String(),
		"type":        string(tx.Type),
		"amount":      tx.Amount,
		"currency":    tx.Currency,
		"contract_id": contractID,
		"at":          tx.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if err := p.client.ExecuteWrite(ctx, projectCypher, params); err != nil {
		return fmt.Errorf("project transaction %s: %w", tx.ID, err)
	}
	return nil
}
