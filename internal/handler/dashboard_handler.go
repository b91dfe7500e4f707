package handler

import (
	"context"

	"github.com/noah-isme/siakad-cli/internal/dto"
	"github.com/noah-isme/siakad-cli/internal/middleware"
)

func (r *Router) dashboard(ctx context.Context, args []string) error {
	user, err := r.currentUser()
	if err != nil {
		return err
	}
	dash := dto.NewDashboard(user, middleware.VisibleSections(user.Role))
	r.printf("%s\nRole: %s\n\n", dash.Welcome, dash.Role)
	if len(dash.Cards) == 0 {
		r.printf("Nothing to show for this role.\n")
		return nil
	}
	t := newTable(r.out, "SECTION", "DESCRIPTION", "COMMAND")
	for _, card := range dash.Cards {
		t.row(card.Title, card.Description, "siakad "+card.Command)
	}
	t.flush()
	return nil
}
