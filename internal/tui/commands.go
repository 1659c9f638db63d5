package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

func loadProductsCmd(ctx context.Context, store Store, filter service.ProductFilter) tea.Cmd {
	return func() tea.Msg {
		products, err := store.ListProducts(ctx, filter)
		return productsLoadedMsg{products: products, err: err}
	}
}

func setStatusCmd(ctx context.Context, store Store, identity string, status model.ReviewStatus) tea.Cmd {
	return func() tea.Msg {
		err := store.SetStatus(ctx, identity, status, nil)
		return statusUpdatedMsg{identity: identity, status: status, err: err}
	}
}

func setNotesCmd(ctx context.Context, store Store, identity, notes string) tea.Cmd {
	return func() tea.Msg {
		err := store.SetNotes(ctx, identity, notes)
		return notesUpdatedMsg{identity: identity, notes: notes, err: err}
	}
}
