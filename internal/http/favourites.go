package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/database/exercises"
	"github.com/mrlokans/gymlife/internal/entities"
)

// FavouritesController handles favourite toggling.
type FavouritesController struct {
	store FavouritesStore
	views *views
}

// NewFavouritesController creates a new FavouritesController.
func NewFavouritesController(store FavouritesStore, views *views) *FavouritesController {
	return &FavouritesController{store: store, views: views}
}

// ToggleFavourite handles GET /toggle_favourite/:id/:flag
// The flag is what the page believed ("1" favourited, "0" not). The stored
// state decides the direction; a flag that disagrees is only logged.
func (fc *FavouritesController) ToggleFavourite(c *gin.Context) {
	exerciseID := c.Param("id")
	flag := c.Param("flag")
	username := auth.GetUsername(c)

	isFavourite, err := fc.store.Toggle(c.Request.Context(), username, exerciseID)
	if err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			fc.views.notFound(c)
			return
		}
		fc.views.internalError(c, err, "toggle favourite")
		return
	}

	// Before the toggle the state was !isFavourite
	if believed, known := parseFavouriteFlag(flag); !known || believed == isFavourite {
		log.Printf("Stale favourite flag %q from %s for exercise %s, now favourite=%t",
			flag, username, exerciseID, isFavourite)
	}

	c.Redirect(http.StatusFound, "/exercise/"+exerciseID)
}

func parseFavouriteFlag(flag string) (favourite bool, known bool) {
	switch flag {
	case "1":
		return true, true
	case "0":
		return false, true
	default:
		return false, false
	}
}

// exerciseCard is an exercise as shown in a listing, marked when the visitor
// has it in their favourites.
type exerciseCard struct {
	entities.Exercise
	Favourite bool
}

// exerciseCards marks the favourites of username in list. Anonymous visitors
// get unmarked cards without a query.
func exerciseCards(ctx context.Context, store FavouritesStore, username string, list []entities.Exercise) ([]exerciseCard, error) {
	favourite := map[string]bool{}
	if username != "" && len(list) > 0 {
		ids, err := store.FavouriteIDs(ctx, username)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			favourite[id] = true
		}
	}

	cards := make([]exerciseCard, len(list))
	for i, e := range list {
		cards[i] = exerciseCard{Exercise: e, Favourite: favourite[e.ID]}
	}
	return cards, nil
}
