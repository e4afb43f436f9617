package orders

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/game"
)

// Decode resolves an envelope into an order against the game's catalog.
func Decode(env Envelope, g *game.Game) (Order, error) {
	cat := g.Catalog()
	switch env.Type {
	case TypeGive, TypeTake:
		var params AmountParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		what, err := cat.Find(params.Type)
		if err != nil {
			return nil, err
		}
		if env.Type == TypeGive {
			return &Give{What: what, Amount: params.Amount}, nil
		}
		return &Take{What: what, Amount: params.Amount}, nil

	case TypeBuild:
		var params AmountParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		what, err := cat.FindKind(params.Type, catalog.KindProductionCenterType)
		if err != nil {
			return nil, err
		}
		return &Build{What: what}, nil

	case TypeRecruit:
		var params RecruitParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		what, err := cat.FindKind(params.Type, catalog.KindUnitType)
		if err != nil {
			return nil, err
		}
		count, err := atLeastOne(params.Count)
		if err != nil {
			return nil, err
		}
		return &Recruit{What: what, Count: count}, nil

	case TypeProduce, TypeCancelProduction:
		var params ProduceParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		f, err := cat.Formula(params.Formula)
		if err != nil {
			return nil, err
		}
		count, err := atLeastOne(params.Count)
		if err != nil {
			return nil, err
		}
		if env.Type == TypeProduce {
			return &Produce{Center: params.Center, Formula: f, Count: count}, nil
		}
		return &CancelProduction{Center: params.Center, Formula: f, Count: count}, nil

	case TypeUpgrade, TypeStartUpgrade, TypeCancelUpgrade:
		var params TargetParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		if params.Center == nil && params.Group == "" {
			return nil, fmt.Errorf("%w: %s needs a center or a group", ErrBadParams, env.Type)
		}
		target := Target{Center: params.Center, Group: params.Group, Unit: params.Unit}
		switch env.Type {
		case TypeUpgrade:
			return &Upgrade{Target: target}, nil
		case TypeStartUpgrade:
			return &StartUpgrade{Target: target}, nil
		default:
			return &CancelUpgrade{Target: target}, nil
		}

	case TypeTransport, TypeStopTransport, TypeTrade, TypeStopTrade:
		var params ResourceParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		r, err := cat.FindKind(params.Resource, catalog.KindResource)
		if err != nil {
			return nil, err
		}
		switch env.Type {
		case TypeTransport:
			return &Transport{Resource: r, Amount: params.Amount}, nil
		case TypeStopTransport:
			return &StopTransport{Resource: r, Amount: params.Amount}, nil
		case TypeTrade:
			return &Trade{Resource: r, Amount: params.Amount}, nil
		default:
			return &StopTrade{Resource: r, Amount: params.Amount}, nil
		}

	case TypeFinishTrade:
		var params SettleParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		r, err := cat.FindKind(params.Resource, catalog.KindResource)
		if err != nil {
			return nil, err
		}
		if params.Buyer == "" {
			return nil, fmt.Errorf("%w: %s needs a buyer", ErrBadParams, env.Type)
		}
		return &FinishTrade{Game: g, Buyer: params.Buyer, Resource: r, Amount: params.Amount, Price: params.Price}, nil

	case TypeBid, TypeCancelBid:
		var params ResourceParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		r, err := cat.FindKind(params.Resource, catalog.KindResource)
		if err != nil {
			return nil, err
		}
		if env.Type == TypeBid {
			return &Bid{Resource: r}, nil
		}
		return &CancelBid{Resource: r}, nil

	case TypeResearch, TypeCancelResearch:
		var params TechnologyParams
		if err := decodeParams(env, &params); err != nil {
			return nil, err
		}
		tech, err := cat.FindKind(params.Technology, catalog.KindTechnology)
		if err != nil {
			return nil, err
		}
		if env.Type == TypeResearch {
			return &Research{Technology: tech}, nil
		}
		return &CancelResearch{Technology: tech}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrder, env.Type)
	}
}

func decodeParams(env Envelope, out any) error {
	if env.Params.IsZero() {
		return nil
	}
	if err := env.Params.Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadParams, env.Type, err)
	}
	return nil
}

func atLeastOne(n int) (int, error) {
	switch {
	case n == 0:
		return 1, nil
	case n < 0:
		return 0, fmt.Errorf("%w: negative count %d", ErrBadParams, n)
	}
	return n, nil
}
