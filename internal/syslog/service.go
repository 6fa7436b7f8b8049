package syslog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/metrics"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

// GenesisHash seeds the chain: the first entry links back to 64 zero chars.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AppendInput captures everything one chain entry records.
type AppendInput struct {
	Action       enums.LogAction
	Category     enums.LogCategory
	ActorID      *uuid.UUID
	TargetUserID *uuid.UUID
	Description  string
	IPAddress    *string
	Metadata     json.RawMessage
}

// VerifyResult reports the outcome of a full chain scan.
type VerifyResult struct {
	IsValid     bool   `json:"is_valid"`
	TotalBlocks int64  `json:"total_blocks"`
	BrokenAt    *int64 `json:"broken_at"`
	Message     string `json:"message"`
}

// Service exposes the append-only audit chain.
type Service interface {
	Append(ctx context.Context, input AppendInput) (*models.SystemLog, error)
	VerifyChain(ctx context.Context, actorID *uuid.UUID) (*VerifyResult, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[models.SystemLog], error)
}

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.ChainMetrics
	now     func() time.Time

	// mu serializes appends so two writers never observe the same tail.
	mu sync.Mutex
}

// NewService wires the audit chain service with its dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, chainMetrics *metrics.ChainMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("syslog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		logg:    logg,
		metrics: chainMetrics,
		now:     time.Now,
	}, nil
}

// ComputeHash digests the fields every entry commits to. Actor is recorded
// as "system" when no user performed the action.
func ComputeHash(blockIndex int64, action enums.LogAction, actorID *uuid.UUID, description string, timestamp time.Time, previousHash string) string {
	actor := "system"
	if actorID != nil {
		actor = actorID.String()
	}
	data := fmt.Sprintf("%d%s%s%s%s%s",
		blockIndex,
		action,
		actor,
		description,
		timestamp.UTC().Format(time.RFC3339Nano),
		previousHash,
	)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func (s *service) Append(ctx context.Context, input AppendInput) (*models.SystemLog, error) {
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid log action %q", input.Action))
	}
	category := input.Category
	if category == "" {
		category = enums.CategoryForAction(input.Action)
	}
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid log category %q", category))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entry *models.SystemLog
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// The tail is always re-read inside the transaction; a cached
		// counter could desync from persisted state across restarts.
		last, err := repo.FindLast(ctx)
		if err != nil {
			return err
		}

		var blockIndex int64
		previousHash := GenesisHash
		if last != nil {
			blockIndex = last.BlockIndex + 1
			previousHash = last.CurrentHash
		}

		timestamp := s.now().UTC()
		candidate := &models.SystemLog{
			BlockIndex:   blockIndex,
			Action:       input.Action,
			Category:     category,
			ActorID:      input.ActorID,
			TargetUserID: input.TargetUserID,
			Description:  input.Description,
			IPAddress:    input.IPAddress,
			Metadata:     input.Metadata,
			Timestamp:    timestamp,
			PreviousHash: previousHash,
		}
		candidate.CurrentHash = ComputeHash(blockIndex, input.Action, input.ActorID, input.Description, timestamp, previousHash)

		if err := repo.Create(ctx, candidate); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist audit entry")
		}
		entry = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAppend(category.String())
	return entry, nil
}

// VerifyChain walks every entry in block order and checks both the hash
// linkage and each entry's own digest. The scan result is computed first;
// the CHAIN_VERIFIED entry recording the outcome is appended afterwards so
// verification never invalidates itself.
func (s *service) VerifyChain(ctx context.Context, actorID *uuid.UUID) (*VerifyResult, error) {
	started := s.now()

	entries, err := s.repo.ListAscending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load audit chain")
	}

	result := verifyEntries(entries)
	s.metrics.ObserveVerify(result.IsValid, s.now().Sub(started))

	outcome := "valid"
	if !result.IsValid {
		outcome = fmt.Sprintf("broken at block %d", *result.BrokenAt)
	}
	if _, err := s.Append(ctx, AppendInput{
		Action:      enums.LogActionChainVerified,
		Category:    enums.LogCategorySystem,
		ActorID:     actorID,
		Description: fmt.Sprintf("Chain verification run over %d blocks: %s", result.TotalBlocks, outcome),
	}); err != nil {
		// The verification result stands even when its own audit entry
		// cannot be written.
		s.logg.Error(ctx, "appending CHAIN_VERIFIED entry failed", err)
	}

	return result, nil
}

func verifyEntries(entries []models.SystemLog) *VerifyResult {
	total := int64(len(entries))
	if total == 0 {
		return &VerifyResult{IsValid: true, TotalBlocks: 0, Message: "No logs to verify."}
	}

	previousHash := GenesisHash
	for i := range entries {
		entry := &entries[i]
		if entry.PreviousHash != previousHash {
			broken := entry.BlockIndex
			return &VerifyResult{
				IsValid:     false,
				TotalBlocks: total,
				BrokenAt:    &broken,
				Message:     fmt.Sprintf("Chain broken at block %d: previous_hash mismatch.", broken),
			}
		}
		expected := ComputeHash(entry.BlockIndex, entry.Action, entry.ActorID, entry.Description, entry.Timestamp, entry.PreviousHash)
		if entry.CurrentHash != expected {
			broken := entry.BlockIndex
			return &VerifyResult{
				IsValid:     false,
				TotalBlocks: total,
				BrokenAt:    &broken,
				Message:     fmt.Sprintf("Chain broken at block %d: hash mismatch (data tampered).", broken),
			}
		}
		previousHash = entry.CurrentHash
	}

	return &VerifyResult{
		IsValid:     true,
		TotalBlocks: total,
		Message:     fmt.Sprintf("Chain integrity verified. All %d blocks are valid.", total),
	}
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[models.SystemLog], error) {
	entries, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return pagination.Page[models.SystemLog]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}
	return pagination.NewPage(entries, params, total), nil
}
