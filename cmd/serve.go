package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/notegen/clip"
	"github.com/jsphweid/notegen/logger"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/notation"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// clips backs the clip endpoints and the clip_id field of requests.
var clips clip.Store = clip.NewMemoryStore()

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := getConfig()
		store, err := openStore(conf)
		if err != nil {
			return err
		}
		UseClipStore(store)
		logger.Info("listening", logger.Fields{"port": conf.Port, "clip_store": conf.ClipStore})
		return http.ListenAndServe(":"+conf.Port, NewRouter())
	},
}

func UseClipStore(s clip.Store) {
	clips = s
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	router.HandleFunc("/compile", HandleCompile).Methods("POST")
	router.HandleFunc("/generate", HandleGenerate).Methods("POST")
	router.HandleFunc("/arpeggio", HandleArpeggio).Methods("POST")
	router.HandleFunc("/clips", HandleCreateClip).Methods("POST")
	router.HandleFunc("/clips", HandleListClips).Methods("GET")
	router.HandleFunc("/clips/{id}", HandleGetClip).Methods("GET")
	router.Use(requestLogging)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", logger.RequestIDHeader},
	})
	return c.Handler(router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(logger.RequestIDHeader) == "" {
			r.Header.Set(logger.RequestIDHeader, uuid.NewString())
		}
		w.Header().Set(logger.RequestIDHeader, r.Header.Get(logger.RequestIDHeader))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		logger.LogRequest(r, time.Since(start), rec.status)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", err, logger.WithRequest(r))
	} else {
		logger.Warn("bad request: "+err.Error(), logger.WithRequest(r))
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("could not decode request body: %w", err)
	}
	return nil
}

// requestClip loads the clip named by a request, if any.
func requestClip(r *http.Request, id string) (clipCtx, error) {
	if id == "" {
		return clipCtx{}, nil
	}
	c, err := clips.Get(r.Context(), id)
	if err != nil {
		return clipCtx{}, err
	}
	return clipCtx{store: clips, clip: c, ok: true}, nil
}

func clipStatus(err error) int {
	if errors.Is(err, clip.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// storeEvents appends events to the request clip when there is one.
func storeEvents(r *http.Request, c clipCtx, events []model.NoteEvent) error {
	if !c.ok {
		return nil
	}
	return clip.StoreSink{Store: c.store, ClipID: c.clip.ID}.Accept(r.Context(), events)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func HandleCompile(w http.ResponseWriter, r *http.Request) {
	var input model.CompileRequestBody
	if err := decode(r, &input); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	c, err := requestClip(r, input.ClipID)
	if err != nil {
		writeError(w, r, clipStatus(err), err)
		return
	}

	opts := notation.DefaultOptions()
	opts.MaxTokens = getConfig().MaxExpandedTokens
	if c.ok {
		opts = clip.NotationOptions(c.clip, opts)
	}
	if input.Octave > 0 {
		opts.Octave = input.Octave
	}
	if input.Length > 0 {
		opts.Length = input.Length
	}

	doc := notation.Compile(input.Notation, opts)
	failures := doc.Failures
	for _, err := range doc.Errors {
		var tooLarge *notation.TooLargeError
		if errors.As(err, &tooLarge) {
			failures = append(failures, model.Failure{Token: tooLarge.Token, Reason: err.Error()})
		}
	}
	if doc.TooLarge() && len(doc.Events) == 0 {
		writeError(w, r, http.StatusRequestEntityTooLarge, doc.Errors[0])
		return
	}
	if err := storeEvents(r, c, doc.Events); err != nil {
		writeError(w, r, clipStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, model.CompileResponse{
		Events:   nonNil(doc.Events),
		Failures: nonNil(failures),
		EndTick:  doc.EndTick,
	})
}

func HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var input model.GenerateRequestBody
	if err := decode(r, &input); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	c, err := requestClip(r, input.ClipID)
	if err != nil {
		writeError(w, r, clipStatus(err), err)
		return
	}

	res, failures, err := generate(input, c)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	events := res.Best.Melody.Events()
	if err := storeEvents(r, c, events); err != nil {
		writeError(w, r, clipStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Events:   nonNil(events),
		Score:    res.Best.Score.Total,
		Seed:     res.Seed,
		Failures: nonNil(failures),
	})
}

func HandleArpeggio(w http.ResponseWriter, r *http.Request) {
	var input model.ArpeggioRequestBody
	if err := decode(r, &input); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	c, err := requestClip(r, input.ClipID)
	if err != nil {
		writeError(w, r, clipStatus(err), err)
		return
	}

	events, failures, err := arpeggiate(input, c)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := storeEvents(r, c, events); err != nil {
		writeError(w, r, clipStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, model.CompileResponse{
		Events:   nonNil(events),
		Failures: nonNil(failures),
		EndTick:  endTick(events),
	})
}

func HandleCreateClip(w http.ResponseWriter, r *http.Request) {
	var input model.Clip
	if err := decode(r, &input); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	saved, err := clips.Put(r.Context(), input)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func HandleListClips(w http.ResponseWriter, r *http.Request) {
	all, err := clips.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(all))
}

func HandleGetClip(w http.ResponseWriter, r *http.Request) {
	c, err := clips.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, clipStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func nonNil[A any](s []A) []A {
	if s == nil {
		return []A{}
	}
	return s
}
