package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/gymlife/internal/database/exercises"
	"github.com/mrlokans/gymlife/internal/entities"
)

type recordedChange struct {
	username string
	action   entities.AuditAction
	id       string
	name     string
}

type recordingAuditor struct {
	mu      sync.Mutex
	changes []recordedChange
}

func (a *recordingAuditor) LogExercise(username string, action entities.AuditAction, exercise *entities.Exercise) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changes = append(a.changes, recordedChange{username, action, exercise.ID, exercise.ExerciseName})
}

func exerciseFormValues(name string) url.Values {
	return url.Values{
		"exercise_name":    {name},
		"muscle_name":      {"Quadriceps"},
		"equipment_type":   {"Barbell"},
		"difficulty_level": {"Intermediate"},
		"mechanics":        {"Compound"},
		"type_of_exercise": {"Strength"},
		"instructions":     {"Sit back and stand up."},
	}
}

func TestHome_Pagination(t *testing.T) {
	env := setupTestEnv(t)
	env.createExercises(t, "alex", 13)

	resp, body := env.get(t, "/home")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "13 exercises in the catalogue.")
	assert.Contains(t, body, "Exercise 01")
	assert.Contains(t, body, "Exercise 06")
	assert.NotContains(t, body, "Exercise 07")
	assert.Contains(t, body, "home_pagination_page=3")
	assert.NotContains(t, body, "home_pagination_page=4")

	_, body = env.get(t, "/home?home_pagination_page=2")
	assert.NotContains(t, body, "Exercise 06")
	assert.Contains(t, body, "Exercise 07")
	assert.Contains(t, body, "Exercise 12")
	assert.NotContains(t, body, "Exercise 13")

	_, body = env.get(t, "/home?home_pagination_page=3")
	assert.Contains(t, body, "Exercise 13")
	assert.NotContains(t, body, "Exercise 12")
}

func TestHome_OutOfRangePageIsEmpty(t *testing.T) {
	env := setupTestEnv(t)
	env.createExercises(t, "alex", 13)

	resp, body := env.get(t, "/home?home_pagination_page=4")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No exercises on this page.")
	assert.NotContains(t, body, "Exercise 13")
}

func TestHome_AcceptsPost(t *testing.T) {
	env := setupTestEnv(t)

	resp, body := env.post(t, "/home", url.Values{})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "0 exercises in the catalogue.")
}

func TestSearch(t *testing.T) {
	env := setupTestEnv(t)
	env.createExercise(t, "alex", "Squat", "Quadriceps", "Barbell", "Intermediate")
	env.createExercise(t, "alex", "Goblet Squat", "Quadriceps", "Kettlebell", "Beginner")
	env.createExercise(t, "alex", "Deadlift", "Hamstrings", "Barbell", "Advanced")

	t.Run("form only", func(t *testing.T) {
		resp, body := env.get(t, "/search")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `name="query"`)
		assert.NotContains(t, body, "results for")
	})

	t.Run("posted query", func(t *testing.T) {
		_, body := env.post(t, "/search", url.Values{"query": {"squat"}})
		assert.Contains(t, body, "2 results for")
		assert.Contains(t, body, "Goblet Squat")
		assert.NotContains(t, body, "Deadlift")
	})

	t.Run("query string", func(t *testing.T) {
		_, body := env.get(t, "/search?query=HAMSTRINGS")
		assert.Contains(t, body, "1 results for")
		assert.Contains(t, body, "Deadlift")
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		_, body := env.post(t, "/search", url.Values{"query": {"%"}})
		assert.Contains(t, body, "0 results for")
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		_, body := env.post(t, "/search", url.Values{"query": {""}})
		assert.Contains(t, body, "3 results for")
	})
}

func TestAddExercise_RequiresSession(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/add_exercise", "/edit_exercise/x", "/delete_exercise/x", "/remove_exercise/x"} {
		resp, _ := env.get(t, path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/log_in", resp.Header.Get("Location"), path)
	}

	resp, _ := env.post(t, "/insert_exercise", exerciseFormValues("Squat"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/log_in", resp.Header.Get("Location"))

	count, err := env.exercises.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddExercise_RendersChoices(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alex")

	resp, body := env.get(t, "/add_exercise")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/insert_exercise"`)
	assert.Contains(t, body, ">Quadriceps</option>")
	assert.Contains(t, body, ">Kettlebell</option>")
	assert.Contains(t, body, ">Advanced</option>")
}

func TestInsertExercise(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alex")

	form := exerciseFormValues("Front Squat")
	form.Set("user_name", "mallory")
	resp, _ := env.post(t, "/insert_exercise", form)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get("Location"))

	_, body := env.get(t, "/home")
	assert.Contains(t, body, "Exercise was successfully added to the database. Thank you alex!")
	assert.Contains(t, body, "Front Squat")

	owned, total, err := env.exercises.ListByOwner(context.Background(), "alex", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Front Squat", owned[0].ExerciseName)
	assert.Equal(t, "Quadriceps", owned[0].MuscleName)
}

func TestInsertExercise_Validation(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alex")

	form := exerciseFormValues("   ")
	resp, _ := env.post(t, "/insert_exercise", form)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/add_exercise", resp.Header.Get("Location"))

	form = exerciseFormValues("Squat")
	form.Del("instructions")
	resp, _ = env.post(t, "/insert_exercise", form)
	assert.Equal(t, "/add_exercise", resp.Header.Get("Location"))

	_, body := env.get(t, "/add_exercise")
	assert.Contains(t, body, "Please fill in every field of the exercise form.")

	count, err := env.exercises.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExercisePage(t *testing.T) {
	env := setupTestEnv(t)
	exercise := env.createExercise(t, "alex", "Bench Press", "Chest", "Barbell", "Beginner")

	resp, body := env.get(t, "/exercise/"+exercise.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Bench Press")
	assert.Contains(t, body, "Added by alex")
	assert.NotContains(t, body, "toggle_favourite", "anonymous visitors cannot favourite")
	assert.NotContains(t, body, "/edit_exercise/")

	env.register(t, "alex")
	_, body = env.get(t, "/exercise/"+exercise.ID)
	assert.Contains(t, body, "/toggle_favourite/"+exercise.ID+"/0")
	assert.Contains(t, body, "/edit_exercise/"+exercise.ID)
	assert.Contains(t, body, "/delete_exercise/"+exercise.ID)
}

func TestExercisePage_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	for _, id := range []string{"not-an-id", exercises.NewID()} {
		resp, body := env.get(t, "/exercise/"+id)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, id)
		assert.Contains(t, body, "Page not found")
	}
}

func TestEditExercise_OwnerOnly(t *testing.T) {
	env := setupTestEnv(t)
	exercise := env.createExercise(t, "alex", "Bench Press", "Chest", "Barbell", "Beginner")

	env.register(t, "bob")

	resp, _ := env.get(t, "/edit_exercise/"+exercise.ID)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/exercise/"+exercise.ID, resp.Header.Get("Location"))

	resp, _ = env.post(t, "/update_exercise/"+exercise.ID, exerciseFormValues("Hijacked"))
	assert.Equal(t, "/exercise/"+exercise.ID, resp.Header.Get("Location"))

	resp, _ = env.post(t, "/remove_exercise/"+exercise.ID, url.Values{})
	assert.Equal(t, "/exercise/"+exercise.ID, resp.Header.Get("Location"))

	_, body := env.get(t, "/exercise/"+exercise.ID)
	assert.Contains(t, body, "Only the user who added this exercise can change it.")
	assert.Contains(t, body, "Bench Press")

	stored, err := env.exercises.GetByID(context.Background(), exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", stored.ExerciseName)
}

func TestUpdateExercise(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alex")
	exercise := env.createExercise(t, "alex", "Bench Press", "Chest", "Barbell", "Beginner")

	resp, body := env.get(t, "/edit_exercise/"+exercise.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Bench Press"`)
	assert.Contains(t, body, `<option value="Chest" selected>`)

	resp, _ = env.post(t, "/update_exercise/"+exercise.ID, exerciseFormValues("Incline Bench Press"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get("Location"))

	_, body = env.get(t, "/home")
	assert.Contains(t, body, "Exercise was successfully edited. Thank you alex!")

	stored, err := env.exercises.GetByID(context.Background(), exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "Incline Bench Press", stored.ExerciseName)
	assert.Equal(t, "Quadriceps", stored.MuscleName)
	assert.Equal(t, "alex", stored.UserName)
}

func TestUpdateExercise_InvalidForm(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alex")
	exercise := env.createExercise(t, "alex", "Bench Press", "Chest", "Barbell", "Beginner")

	form := exerciseFormValues("Bench Press")
	form.Del("muscle_name")
	resp, _ := env.post(t, "/update_exercise/"+exercise.ID, form)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/edit_exercise/"+exercise.ID, resp.Header.Get("Location"))
}

func TestDeleteExercise(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alex")
	exercise := env.createExercise(t, "alex", "Bench Press", "Chest", "Barbell", "Beginner")

	resp, body := env.get(t, "/delete_exercise/"+exercise.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/remove_exercise/`+exercise.ID+`"`)

	resp, _ = env.post(t, "/remove_exercise/"+exercise.ID, url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get("Location"))

	_, body = env.get(t, "/home")
	assert.Contains(t, body, "Exercise was successfully deleted.")
	assert.False(t, strings.Contains(body, "Bench Press"))

	resp, _ = env.get(t, "/exercise/"+exercise.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExerciseChangesAreAudited(t *testing.T) {
	auditor := &recordingAuditor{}
	env := setupTestEnv(t, func(cfg *RouterConfig) { cfg.Audit = auditor })
	env.register(t, "alex")

	resp, _ := env.post(t, "/insert_exercise", exerciseFormValues("Front Squat"))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	owned, _, err := env.exercises.ListByOwner(context.Background(), "alex", 10, 0)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	id := owned[0].ID

	resp, _ = env.post(t, "/update_exercise/"+id, exerciseFormValues("Box Squat"))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp, _ = env.post(t, "/remove_exercise/"+id, url.Values{})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	assert.Equal(t, []recordedChange{
		{"alex", entities.AuditActionCreate, id, "Front Squat"},
		{"alex", entities.AuditActionUpdate, id, "Box Squat"},
		{"alex", entities.AuditActionDelete, id, "Box Squat"},
	}, auditor.changes)
}

func TestListingsMarkFavourites(t *testing.T) {
	env := setupTestEnv(t)
	liked := env.createExercise(t, "bob", "Pull Up", "Lats", "Body Only", "Intermediate")
	env.createExercise(t, "bob", "Chin Up", "Lats", "Body Only", "Intermediate")

	_, body := env.get(t, "/home")
	assert.NotContains(t, body, `class="badge"`, "anonymous visitors have no favourites")

	env.register(t, "alex")
	env.get(t, "/toggle_favourite/"+liked.ID+"/0")

	_, body = env.get(t, "/home")
	assert.Equal(t, 1, strings.Count(body, `class="badge"`))

	_, body = env.post(t, "/search", url.Values{"query": {"lats"}})
	assert.Contains(t, body, "2 results for")
	assert.Equal(t, 1, strings.Count(body, `class="badge"`))
}

func TestExercisePage_HistoryForOwnerOnly(t *testing.T) {
	env := setupTestEnv(t)
	exercise := env.createExercise(t, "alex", "Bench Press", "Chest", "Barbell", "Beginner")
	env.logEvent(t, "alex", entities.AuditActionCreate, exercise.ID, "Created exercise Bench Press")
	env.logEvent(t, "alex", entities.AuditActionUpdate, exercise.ID, "Updated exercise Bench Press")

	_, body := env.get(t, "/exercise/"+exercise.ID)
	assert.NotContains(t, body, "Created exercise Bench Press")

	env.register(t, "bob")
	_, body = env.get(t, "/exercise/"+exercise.ID)
	assert.NotContains(t, body, "Created exercise Bench Press")
	env.logout(t)

	env.register(t, "alex")
	_, body = env.get(t, "/exercise/"+exercise.ID)
	assert.Contains(t, body, "History")
	created := strings.Index(body, "Created exercise Bench Press")
	updated := strings.Index(body, "Updated exercise Bench Press")
	require.NotEqual(t, -1, created)
	assert.Greater(t, updated, created, "oldest first")
}
