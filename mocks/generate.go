package mocks

//go:generate mockgen -destination=./mock_position_view.go -package=mocks github.com/rxtech-lab/argo-signal/internal/types PositionView
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-signal/internal/strategy Strategy
