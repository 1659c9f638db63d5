package tui

import "github.com/Veraticus/trendscout/internal/model"

type productsLoadedMsg struct {
	err      error
	products []model.ProductRecord
}

type statusUpdatedMsg struct {
	err      error
	identity string
	status   model.ReviewStatus
}

type notesUpdatedMsg struct {
	err      error
	identity string
	notes    string
}
