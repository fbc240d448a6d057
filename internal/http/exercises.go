package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/database/exercises"
	"github.com/mrlokans/gymlife/internal/entities"
	"github.com/mrlokans/gymlife/internal/search"
)

// HomePageParam selects the page of the home listing.
const HomePageParam = "home_pagination_page"

const notOwnerMessage = "Only the user who added this exercise can change it."

// exerciseForm is the add and edit form. Every field is required.
type exerciseForm struct {
	ExerciseName    string `form:"exercise_name" binding:"required,max=200"`
	MuscleName      string `form:"muscle_name" binding:"required,max=100"`
	EquipmentType   string `form:"equipment_type" binding:"required,max=100"`
	DifficultyLevel string `form:"difficulty_level" binding:"required,max=50"`
	Mechanics       string `form:"mechanics" binding:"required,max=50"`
	TypeOfExercise  string `form:"type_of_exercise" binding:"required,max=100"`
	Instructions    string `form:"instructions" binding:"required,max=10000"`
}

func (f exerciseForm) exercise() entities.Exercise {
	return entities.Exercise{
		ExerciseName:    strings.TrimSpace(f.ExerciseName),
		MuscleName:      f.MuscleName,
		EquipmentType:   f.EquipmentType,
		DifficultyLevel: f.DifficultyLevel,
		Mechanics:       f.Mechanics,
		TypeOfExercise:  f.TypeOfExercise,
		Instructions:    strings.TrimSpace(f.Instructions),
	}
}

// bind reads the form and rejects names or instructions made of blanks only.
func (f *exerciseForm) bind(c *gin.Context) error {
	if err := c.ShouldBind(f); err != nil {
		return err
	}
	if strings.TrimSpace(f.ExerciseName) == "" || strings.TrimSpace(f.Instructions) == "" {
		return errors.New("blank exercise name or instructions")
	}
	return nil
}

// ExercisesController serves the catalogue pages.
type ExercisesController struct {
	exercises  ExerciseStore
	favourites FavouritesStore
	lookups    LookupStore
	views      *views
	pageSize   int
	audit      Auditor
	history    AuditLog
}

// NewExercisesController creates a new ExercisesController.
func NewExercisesController(exercises ExerciseStore, favourites FavouritesStore, lookups LookupStore, views *views, pageSize int) *ExercisesController {
	return &ExercisesController{
		exercises:  exercises,
		favourites: favourites,
		lookups:    lookups,
		views:      views,
		pageSize:   pageSize,
	}
}

// Home handles GET|POST /home
// Renders one page of the catalogue.
func (ec *ExercisesController) Home(c *gin.Context) {
	page := requestPage(c, HomePageParam, ec.pageSize)

	list, total, err := ec.exercises.List(c.Request.Context(), page.Limit, page.Offset)
	if err != nil {
		ec.views.internalError(c, err, "list exercises")
		return
	}
	page = page.WithTotal(total)

	cards, err := exerciseCards(c.Request.Context(), ec.favourites, auth.GetUsername(c), list)
	if err != nil {
		ec.views.internalError(c, err, "list favourites")
		return
	}

	ec.views.render(c, http.StatusOK, "home.html", gin.H{
		"Title":     "Home",
		"Exercises": cards,
		"Total":     total,
		"Page":      page,
		"Pager":     buildPager(c, page, HomePageParam),
	})
}

// Search handles GET|POST /search
// GET without a query shows the empty form. The query comes from the posted
// form, or from ?query= so results can be linked.
func (ec *ExercisesController) Search(c *gin.Context) {
	query, searched := c.GetQuery("query")
	if c.Request.Method == http.MethodPost {
		query, searched = c.GetPostForm("query")
	}

	data := gin.H{
		"Title":    "Search",
		"Query":    query,
		"Searched": searched,
		"Results":  []exerciseCard(nil),
	}

	if searched {
		results, err := ec.exercises.Search(c.Request.Context(), search.New(query))
		if err != nil {
			ec.views.internalError(c, err, "search exercises")
			return
		}
		cards, err := exerciseCards(c.Request.Context(), ec.favourites, auth.GetUsername(c), results)
		if err != nil {
			ec.views.internalError(c, err, "list favourites")
			return
		}
		data["Results"] = cards
	}

	ec.views.render(c, http.StatusOK, "search.html", data)
}

// AddExercise handles GET|POST /add_exercise
func (ec *ExercisesController) AddExercise(c *gin.Context) {
	ec.renderForm(c, "add_exercise.html", "Add Exercise", entities.Exercise{}, "/insert_exercise", "Add Exercise")
}

// InsertExercise handles POST /insert_exercise
// The owner is always the session user, never a form field.
func (ec *ExercisesController) InsertExercise(c *gin.Context) {
	var form exerciseForm
	if err := form.bind(c); err != nil {
		ec.views.redirectWithFlash(c, "/add_exercise", "Please fill in every field of the exercise form.")
		return
	}

	username := auth.GetUsername(c)
	exercise := form.exercise()
	exercise.UserName = username

	if err := ec.exercises.Create(c.Request.Context(), &exercise); err != nil {
		ec.views.internalError(c, err, "insert exercise")
		return
	}
	ec.record(username, entities.AuditActionCreate, &exercise)

	ec.views.redirectWithFlash(c, "/home",
		fmt.Sprintf("Exercise was successfully added to the database. Thank you %s!", username))
}

// Exercise handles GET|POST /exercise/:id
// Favourites is 1 when the visitor has favourited the exercise, 0 otherwise.
func (ec *ExercisesController) Exercise(c *gin.Context) {
	ctx := c.Request.Context()

	exercise, ok := ec.load(c)
	if !ok {
		return
	}

	username := auth.GetUsername(c)
	favourite := 0
	if username != "" {
		isFavourite, err := ec.favourites.IsFavourite(ctx, username, exercise.ID)
		if err != nil {
			ec.views.internalError(c, err, "check favourite")
			return
		}
		if isFavourite {
			favourite = 1
		}
	}

	favouritedBy, err := ec.favourites.FavouritedBy(ctx, exercise.ID)
	if err != nil {
		ec.views.internalError(c, err, "list favourited by")
		return
	}

	// Only the owner sees the change history
	isOwner := exercise.IsOwnedBy(username)
	var history []entities.AuditEvent
	if isOwner && ec.history != nil {
		history, err = ec.history.GetEventsForExercise(ctx, exercise.ID)
		if err != nil {
			ec.views.internalError(c, err, "load exercise history")
			return
		}
	}

	ec.views.render(c, http.StatusOK, "exercise.html", gin.H{
		"Title":        exercise.ExerciseName,
		"Exercise":     exercise,
		"Favourites":   favourite,
		"FavouritedBy": favouritedBy,
		"IsOwner":      isOwner,
		"History":      history,
	})
}

// EditExercise handles GET|POST /edit_exercise/:id
func (ec *ExercisesController) EditExercise(c *gin.Context) {
	exercise, ok := ec.loadOwned(c)
	if !ok {
		return
	}
	ec.renderForm(c, "edit_exercise.html", "Edit Exercise", *exercise, "/update_exercise/"+exercise.ID, "Save Changes")
}

// UpdateExercise handles POST /update_exercise/:id
func (ec *ExercisesController) UpdateExercise(c *gin.Context) {
	exercise, ok := ec.loadOwned(c)
	if !ok {
		return
	}

	var form exerciseForm
	if err := form.bind(c); err != nil {
		ec.views.redirectWithFlash(c, "/edit_exercise/"+exercise.ID, "Please fill in every field of the exercise form.")
		return
	}

	fields := form.exercise()
	if err := ec.exercises.Update(c.Request.Context(), exercise.ID, &fields); err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			ec.views.notFound(c)
			return
		}
		ec.views.internalError(c, err, "update exercise")
		return
	}
	fields.ID = exercise.ID
	ec.record(auth.GetUsername(c), entities.AuditActionUpdate, &fields)

	ec.views.redirectWithFlash(c, "/home",
		fmt.Sprintf("Exercise was successfully edited. Thank you %s!", auth.GetUsername(c)))
}

// DeleteExercise handles GET|POST /delete_exercise/:id
// Renders the confirmation page.
func (ec *ExercisesController) DeleteExercise(c *gin.Context) {
	exercise, ok := ec.loadOwned(c)
	if !ok {
		return
	}
	ec.views.render(c, http.StatusOK, "delete_exercise.html", gin.H{
		"Title":    "Delete Exercise",
		"Exercise": exercise,
	})
}

// RemoveExercise handles GET|POST /remove_exercise/:id
func (ec *ExercisesController) RemoveExercise(c *gin.Context) {
	exercise, ok := ec.loadOwned(c)
	if !ok {
		return
	}

	if err := ec.exercises.Delete(c.Request.Context(), exercise.ID); err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			ec.views.notFound(c)
			return
		}
		ec.views.internalError(c, err, "remove exercise")
		return
	}
	ec.record(auth.GetUsername(c), entities.AuditActionDelete, exercise)

	ec.views.redirectWithFlash(c, "/home", "Exercise was successfully deleted.")
}

func (ec *ExercisesController) record(username string, action entities.AuditAction, exercise *entities.Exercise) {
	if ec.audit != nil {
		ec.audit.LogExercise(username, action, exercise)
	}
}

func (ec *ExercisesController) renderForm(c *gin.Context, name, title string, exercise entities.Exercise, action, submit string) {
	choices, err := ec.lookups.All(c.Request.Context())
	if err != nil {
		ec.views.internalError(c, err, "load lookups")
		return
	}

	ec.views.render(c, http.StatusOK, name, gin.H{
		"Title":    title,
		"Exercise": exercise,
		"Choices":  choices,
		"Action":   action,
		"Submit":   submit,
	})
}

// load fetches the exercise named by the :id parameter. Unknown and
// malformed ids render the 404 page.
func (ec *ExercisesController) load(c *gin.Context) (*entities.Exercise, bool) {
	exercise, err := ec.exercises.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			ec.views.notFound(c)
		} else {
			ec.views.internalError(c, err, "get exercise")
		}
		return nil, false
	}
	return exercise, true
}

// loadOwned is load restricted to the exercise's owner. Anyone else is sent
// back to the exercise page.
func (ec *ExercisesController) loadOwned(c *gin.Context) (*entities.Exercise, bool) {
	exercise, ok := ec.load(c)
	if !ok {
		return nil, false
	}
	if !exercise.IsOwnedBy(auth.GetUsername(c)) {
		ec.views.redirectWithFlash(c, "/exercise/"+exercise.ID, notOwnerMessage)
		return nil, false
	}
	return exercise, true
}
