package roster

import (
	"context"

	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/models"
)

const positionTakenMsg = "Roster position is already taken"

// Service keeps the season roster consistent: at most one player per
// (season, position) and at most one position per (season, player).
type Service struct {
	repo RosterRepository
}

func NewService(repo RosterRepository) *Service {
	return &Service{repo: repo}
}

// PositionChange is one side of a completed swap.
type PositionChange struct {
	ID       uint `json:"id"`
	Position int  `json:"position"`
}

type SwapResult struct {
	Message string         `json:"message"`
	Player1 PositionChange `json:"player1"`
	Player2 PositionChange `json:"player2"`
}

// Assign puts the player into position for the season. The player's previous
// slot and whoever held position are both removed first.
func (s *Service) Assign(ctx context.Context, teamID, playerID, seasonID uint, position int) (*models.Player, error) {
	if !models.ValidRosterPosition(position) {
		return nil, common.Validation("Roster position must be between %d and %d",
			models.MinRosterPosition, models.MaxRosterPosition)
	}

	player, err := s.loadPlayer(ctx, teamID, playerID)
	if err != nil {
		return nil, err
	}
	if player.Status != models.PlayerActive {
		return nil, common.Validation("Only active players can be added to roster")
	}
	if err := s.checkSeason(ctx, seasonID, player.TeamID); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx RosterRepository) error {
		if err := tx.DeletePlayerSlot(ctx, seasonID, playerID); err != nil {
			return err
		}
		if err := tx.DeletePositionSlot(ctx, seasonID, position); err != nil {
			return err
		}
		return tx.CreateSlot(ctx, &models.SeasonRoster{
			SeasonID:       seasonID,
			PlayerID:       playerID,
			RosterPosition: position,
		})
	})
	if err != nil {
		return nil, common.FromDB(err, "assign roster position", positionTakenMsg)
	}

	player.RosterPosition = &position
	return player, nil
}

// Unassign removes the player's slot in the season. Without a season only the
// deprecated per-player position is cleared.
func (s *Service) Unassign(ctx context.Context, teamID, playerID uint, seasonID *uint) (*models.Player, error) {
	player, err := s.loadPlayer(ctx, teamID, playerID)
	if err != nil {
		return nil, err
	}

	if seasonID == nil {
		if err := s.repo.ClearLegacyPosition(ctx, playerID); err != nil {
			return nil, common.FromDB(err, "clear legacy roster position", "")
		}
		player.RosterPosition = nil
		return player, nil
	}

	if err := s.checkSeason(ctx, *seasonID, player.TeamID); err != nil {
		return nil, err
	}
	if err := s.repo.DeletePlayerSlot(ctx, *seasonID, playerID); err != nil {
		return nil, common.FromDB(err, "remove roster position", "")
	}
	player.RosterPosition = nil
	return player, nil
}

// Swap exchanges the slots of two players in one transaction. The first slot
// is parked on SwapHoldingPosition so the (season, position) constraint holds
// after every statement; the parked value never outlives the transaction.
func (s *Service) Swap(ctx context.Context, teamID, player1ID, player2ID, seasonID uint) (*SwapResult, error) {
	if player1ID == player2ID {
		return nil, common.Validation("Cannot swap a player with themselves")
	}
	p1, err := s.loadPlayer(ctx, teamID, player1ID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadPlayer(ctx, teamID, player2ID); err != nil {
		return nil, err
	}
	if err := s.checkSeason(ctx, seasonID, p1.TeamID); err != nil {
		return nil, err
	}

	var result SwapResult
	err = s.repo.WithTransaction(ctx, func(tx RosterRepository) error {
		slot1, err := tx.FindSlot(ctx, seasonID, player1ID)
		if err != nil {
			return err
		}
		slot2, err := tx.FindSlot(ctx, seasonID, player2ID)
		if err != nil {
			return err
		}
		if slot1 == nil || slot2 == nil {
			return common.NotFound("One or both players in roster")
		}

		pos1, pos2 := slot1.RosterPosition, slot2.RosterPosition
		if err := tx.MoveSlot(ctx, slot1.ID, models.SwapHoldingPosition); err != nil {
			return err
		}
		if err := tx.MoveSlot(ctx, slot2.ID, pos1); err != nil {
			return err
		}
		if err := tx.MoveSlot(ctx, slot1.ID, pos2); err != nil {
			return err
		}

		result = SwapResult{
			Message: "Players swapped successfully",
			Player1: PositionChange{ID: player1ID, Position: pos2},
			Player2: PositionChange{ID: player2ID, Position: pos1},
		}
		return nil
	})
	if err != nil {
		return nil, common.FromDB(err, "swap roster positions", positionTakenMsg)
	}
	return &result, nil
}

// Roster lists the season's occupied slots as players carrying their
// position, ordered by position.
func (s *Service) Roster(ctx context.Context, teamID, seasonID uint) ([]models.Player, error) {
	season, err := s.repo.FindSeason(ctx, seasonID)
	if err != nil {
		return nil, common.FromDB(err, "load season", "")
	}
	if season == nil || season.TeamID == nil || *season.TeamID != teamID {
		return nil, common.NotFound("Season")
	}

	slots, err := s.repo.ListSlots(ctx, teamID, seasonID)
	if err != nil {
		return nil, common.FromDB(err, "list roster", "")
	}

	players := make([]models.Player, 0, len(slots))
	for _, slot := range slots {
		if slot.Player == nil {
			continue
		}
		p := *slot.Player
		pos := slot.RosterPosition
		p.RosterPosition = &pos
		players = append(players, p)
	}
	return players, nil
}

func (s *Service) loadPlayer(ctx context.Context, teamID, playerID uint) (*models.Player, error) {
	player, err := s.repo.FindPlayer(ctx, teamID, playerID)
	if err != nil {
		return nil, common.FromDB(err, "load player", "")
	}
	if player == nil {
		return nil, common.NotFound("Player")
	}
	return player, nil
}

// checkSeason requires the season to exist and belong to teamID.
func (s *Service) checkSeason(ctx context.Context, seasonID, teamID uint) error {
	season, err := s.repo.FindSeason(ctx, seasonID)
	if err != nil {
		return common.FromDB(err, "load season", "")
	}
	if season == nil {
		return common.NotFound("Season")
	}
	if season.TeamID == nil || *season.TeamID != teamID {
		return common.Validation("Season does not belong to the player's team")
	}
	return nil
}
