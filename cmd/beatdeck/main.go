// Package main provides the beatdeck client CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creasty/defaults"
	"github.com/joho/godotenv"

	"beatdeck/internal/app/analytics"
	"beatdeck/internal/app/identity"
	"beatdeck/internal/app/player"
	"beatdeck/internal/infra/account"
	"beatdeck/internal/infra/catalog"
	"beatdeck/internal/infra/config"
	"beatdeck/internal/infra/logger"
	"beatdeck/internal/infra/storage"
)

var (
	app        = kingpin.New("beatdeck", "beatdeck music client")
	configPath = app.Flag("config", "Path to config file (optional)").String()
	dbPath     = app.Flag("db", "Path to the state database (overrides config)").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()

	// login command
	loginCmd  = app.Command("login", "Sign in")
	loginUser = loginCmd.Arg("username", "Username").Required().String()
	loginPass = loginCmd.Arg("password", "Password").Required().String()

	logoutCmd = app.Command("logout", "Sign out")
	statusCmd = app.Command("status", "Show session status")

	// like commands
	likeCmd     = app.Command("like", "Like a track")
	likeTrack   = likeCmd.Arg("track-id", "Track ID").Required().String()
	unlikeCmd   = app.Command("unlike", "Unlike a track")
	unlikeTrack = unlikeCmd.Arg("track-id", "Track ID").Required().String()

	recentCmd = app.Command("recent", "Show recently played tracks")
	tracksCmd = app.Command("tracks", "List the track catalog")

	// playlist commands
	playlistsCmd = app.Command("playlists", "List your playlists")

	createCmd     = app.Command("create-playlist", "Create a playlist")
	createName    = createCmd.Arg("name", "Playlist name").Required().String()
	createDesc    = createCmd.Flag("description", "Playlist description").String()
	createPrivate = createCmd.Flag("private", "Make the playlist private").Bool()

	addTrackCmd      = app.Command("add-track", "Add a track to a playlist")
	addTrackPlaylist = addTrackCmd.Arg("playlist-id", "Playlist ID").Required().String()
	addTrackID       = addTrackCmd.Arg("track-id", "Track ID").Required().String()

	// playback commands
	playCmd   = app.Command("play", "Play a track")
	playTrack = playCmd.Arg("track-id", "Track ID").Required().String()

	waveformCmd   = app.Command("waveform", "Render a track's waveform")
	waveformTrack = waveformCmd.Arg("track-id", "Track ID").Required().String()

	// subscription command
	subscribeCmd  = app.Command("subscribe", "Subscribe to a plan")
	subscribePlan = subscribeCmd.Arg("plan", "Plan ID").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if err := run(command); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ids := identity.New(
		identity.Config{RecentLimit: cfg.Identity.RecentLimit},
		account.NewMock(time.Duration(cfg.Identity.LoginDelayMs)*time.Millisecond),
		store,
		nil,
	)
	defer ids.Close()

	cat := catalog.New()
	ctx := context.Background()

	switch command {
	case loginCmd.FullCommand():
		return login(ctx, ids)
	case logoutCmd.FullCommand():
		ids.Logout()
		fmt.Println("Signed out")
	case statusCmd.FullCommand():
		status(ids)
	case likeCmd.FullCommand():
		ids.LikeTrack(*likeTrack)
		if ids.ShowLoginModal() {
			return identity.ErrNotAuthenticated
		}
		fmt.Printf("Liked %s\n", *likeTrack)
	case unlikeCmd.FullCommand():
		ids.UnlikeTrack(*unlikeTrack)
		fmt.Printf("Unliked %s\n", *unlikeTrack)
	case recentCmd.FullCommand():
		recent(ids, cat)
	case tracksCmd.FullCommand():
		listTracks(cat)
	case playlistsCmd.FullCommand():
		playlists(ids)
	case createCmd.FullCommand():
		id, err := ids.CreatePlaylist(*createName, *createDesc, *createPrivate, "")
		if err != nil {
			return err
		}
		fmt.Printf("Created playlist %s\n", id)
	case addTrackCmd.FullCommand():
		if err := ids.AddTrackToPlaylist(*addTrackPlaylist, *addTrackID); err != nil {
			return err
		}
		fmt.Printf("Added %s to %s\n", *addTrackID, *addTrackPlaylist)
	case playCmd.FullCommand():
		return play(ids, cat, cfg)
	case waveformCmd.FullCommand():
		return waveform(cat, cfg)
	case subscribeCmd.FullCommand():
		if len(cfg.Stripe.Plans) > 0 && !cfg.HasPlan(*subscribePlan) {
			return fmt.Errorf("unknown plan %q", *subscribePlan)
		}
		if err := ids.SubscribeToPlan(*subscribePlan); err != nil {
			return err
		}
		fmt.Printf("Subscribed to %s\n", *subscribePlan)
	}
	return nil
}

// loadConfig reads the config file when one is given, otherwise falls
// back to built-in defaults.
func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.Load(*configPath)
	}
	cfg := &config.Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStorage(cfg *config.Config) (storage.Store, error) {
	path := cfg.Storage.Path
	if *dbPath != "" {
		path = *dbPath
	}
	if cfg.Storage.Driver == "memory" {
		return storage.NewMemory(), nil
	}
	return storage.NewSQLite(path)
}

func login(ctx context.Context, ids *identity.Store) error {
	ok, err := ids.Login(ctx, *loginUser, *loginPass)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Invalid username or password")
		os.Exit(1)
	}
	u, _ := ids.CurrentUser()
	fmt.Printf("Welcome back, %s!\n", u.DisplayName)
	return nil
}

func status(ids *identity.Store) {
	u, ok := ids.CurrentUser()
	if !ok {
		fmt.Println("Not signed in")
		return
	}
	fmt.Printf("Signed in as %s (@%s)\n", u.DisplayName, u.Username)
	if u.IsPremium {
		plan := "premium"
		if u.Subscription != nil {
			plan = u.Subscription.Plan
		}
		fmt.Printf("Plan: %s\n", plan)
	} else {
		fmt.Println("Plan: free")
	}
	fmt.Printf("Playlists: %d  Liked tracks: %d\n", len(ids.Playlists()), len(ids.LikedTracks()))
}

func recent(ids *identity.Store, cat *catalog.Catalog) {
	recent := ids.RecentlyPlayed()
	if len(recent) == 0 {
		fmt.Println("Nothing played yet")
		return
	}
	for i, id := range recent {
		if trk, ok := cat.Lookup(id); ok {
			fmt.Printf("%2d. %s\n", i+1, trk.DisplayName())
		} else {
			fmt.Printf("%2d. %s\n", i+1, id)
		}
	}
}

func listTracks(cat *catalog.Catalog) {
	for _, trk := range cat.All() {
		fmt.Printf("%-10s %-40s %s\n", trk.ID, trk.DisplayName(), trk.Duration)
	}
}

func playlists(ids *identity.Store) {
	pls := ids.Playlists()
	if len(pls) == 0 {
		fmt.Println("No playlists")
		return
	}
	for _, pl := range pls {
		visibility := "public"
		if pl.IsPrivate {
			visibility = "private"
		}
		fmt.Printf("%-12s %-24s %2d tracks (%s)\n", pl.ID, pl.Name, pl.TrackCount(), visibility)
	}
}

func play(ids *identity.Store, cat *catalog.Catalog, cfg *config.Config) error {
	trk, ok := cat.Lookup(*playTrack)
	if !ok {
		return fmt.Errorf("unknown track %q", *playTrack)
	}

	bus := analytics.NewBus()
	defer bus.Close()
	bus.Subscribe(analytics.NewLogSink())

	p := player.NewStore(player.Config{WaveformSamples: cfg.Player.WaveformSamples}, ids, bus)
	p.Play(trk)

	current, _ := p.CurrentTrack()
	fmt.Printf("Now playing: %s\n", current.DisplayName())
	return nil
}

func waveform(cat *catalog.Catalog, cfg *config.Config) error {
	trk, ok := cat.Lookup(*waveformTrack)
	if !ok {
		return fmt.Errorf("unknown track %q", *waveformTrack)
	}

	const height = 8
	samples := player.Waveform(trk.ID, cfg.Player.WaveformSamples)
	var b strings.Builder
	for row := height; row > 0; row-- {
		threshold := float64(row) / height
		for _, v := range samples {
			if v >= threshold {
				b.WriteByte('#')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	fmt.Printf("%s\n%s", trk.DisplayName(), b.String())
	return nil
}
