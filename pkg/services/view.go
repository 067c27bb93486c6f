package services

import (
	"strconv"

	"ad-dashboard/pkg/models"
)

// Text shown by the dashboard
const (
	LoadingText       = "Loading..."
	WelcomeBackText   = "Welcome back! Good to see you again."
	AdminTitle        = "Developer Dashboard"
	UserTitle         = "Dashboard"
	AdminListHeading  = "All Ads"
	UserListHeading   = "Your Ads"
	EmptyAdsText      = "No ads found. Create your first ad!"
	FetchFailedText   = "Failed to load ads"
	DeleteFailedText  = "Failed to delete ad"
	ConfirmDeleteText = "Are you sure you want to delete this ad?"
)

// BuildView turns the dashboard state into its render tree.
// While loading nothing but the loading indicator is shown.
func BuildView(state models.State, isAdmin bool) models.DashboardView {
	if state.Loading {
		return models.DashboardView{Loading: true}
	}

	view := models.DashboardView{
		ReturningVisitor: state.ReturningVisitor,
		Title:            UserTitle,
		Admin:            isAdmin,
		Error:            state.Error,
		ListHeading:      UserListHeading,
	}

	if isAdmin {
		view.Title = AdminTitle
		view.ListHeading = AdminListHeading
		for _, group := range GroupByPerformer(state.Ads) {
			view.Groups = append(view.Groups, models.CardGroup{
				Heading: group.Name + "'s Ads",
				Cards:   buildCards(group.Ads),
			})
		}
		return view
	}

	if len(state.Ads) == 0 {
		view.EmptyMessage = EmptyAdsText
		return view
	}
	view.Cards = buildCards(state.Ads)
	return view
}

func buildCards(ads []models.Ad) []models.AdCard {
	cards := make([]models.AdCard, 0, len(ads))
	for _, ad := range ads {
		cards = append(cards, models.AdCard{
			ID:        ad.ID,
			Title:     ad.DisplayName(),
			VideoURL:  ad.AdDetails.VideoURL,
			TargetURL: ad.AdDetails.TargetURL,
			Budget:    strconv.FormatFloat(ad.AdDetails.Budget, 'f', -1, 64),
		})
	}
	return cards
}
