package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/entities"
)

// Query parameters selecting the pages of the two account listings.
const (
	AddedPageParam     = "user_added_page"
	FavouritePageParam = "user_favourite_page"
)

// SessionEnder forgets the logged in user of a request.
type SessionEnder interface {
	EndSession(r *http.Request) error
}

// UsersController serves the account page.
type UsersController struct {
	exercises  ExerciseStore
	favourites FavouritesStore
	sessions   SessionEnder
	history    AuditLog
	views      *views
	pageSize   int
}

// recentActivity is how many of the user's own changes the account page lists.
const recentActivity = 10

// NewUsersController creates a new UsersController.
func NewUsersController(exercises ExerciseStore, favourites FavouritesStore, sessions SessionEnder, views *views, pageSize int) *UsersController {
	return &UsersController{
		exercises:  exercises,
		favourites: favourites,
		sessions:   sessions,
		views:     views,
		pageSize:  pageSize,
	}
}

// UserAccount handles GET|POST /user_account/:name
// Only the logged in user may open their own page. Anyone else is logged out
// and sent to the login page.
func (uc *UsersController) UserAccount(c *gin.Context) {
	ctx := c.Request.Context()
	account := c.Param("name")

	if account != auth.GetUsername(c) {
		if err := uc.sessions.EndSession(c.Request); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
		uc.views.redirectWithFlash(c, auth.LoginPath, "You may only access your own account page. Please sign in again...")
		return
	}

	addedPage := requestPage(c, AddedPageParam, uc.pageSize)
	added, addedTotal, err := uc.exercises.ListByOwner(ctx, account, addedPage.Limit, addedPage.Offset)
	if err != nil {
		uc.views.internalError(c, err, "list added exercises")
		return
	}
	addedPage = addedPage.WithTotal(addedTotal)

	favouritePage := requestPage(c, FavouritePageParam, uc.pageSize)
	favourites, favouriteTotal, err := uc.exercises.ListFavouritedBy(ctx, account, favouritePage.Limit, favouritePage.Offset)
	if err != nil {
		uc.views.internalError(c, err, "list favourite exercises")
		return
	}
	favouritePage = favouritePage.WithTotal(favouriteTotal)

	addedCards, err := exerciseCards(ctx, uc.favourites, account, added)
	if err != nil {
		uc.views.internalError(c, err, "list favourites")
		return
	}
	favouriteCards := make([]exerciseCard, len(favourites))
	for i, e := range favourites {
		favouriteCards[i] = exerciseCard{Exercise: e, Favourite: true}
	}

	var activity []entities.AuditEvent
	if uc.history != nil {
		activity, _, err = uc.history.GetEvents(ctx, account, recentActivity, 0)
		if err != nil {
			uc.views.internalError(c, err, "load recent activity")
			return
		}
	}

	uc.views.render(c, http.StatusOK, "user_account.html", gin.H{
		"Title":          "My Account",
		"Account":        account,
		"Activity":       activity,
		"Added":          addedCards,
		"AddedCount":     addedTotal,
		"AddedPage":      addedPage,
		"AddedPager":     buildPager(c, addedPage, AddedPageParam),
		"Favourites":     favouriteCards,
		"FavouriteCount": favouriteTotal,
		"FavouritePage":  favouritePage,
		"FavouritePager": buildPager(c, favouritePage, FavouritePageParam),
	})
}
