package cmd

import (
	"go.uber.org/zap"

	"totalwar-mod-launcher/catalog"
	"totalwar-mod-launcher/config"
	"totalwar-mod-launcher/db"
	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/loadorder"
	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/pack"
	"totalwar-mod-launcher/workshop"
)

// session is the state every command works on: the configured game with its
// catalog and load order.
type session struct {
	cfg       config.Config
	game      games.Info
	catalog   *catalog.GameConfig
	loadOrder *loadorder.LoadOrder
}

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) *session {
	// Load configuration
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	// Open the game catalog and load order
	s, err := newSession(cfg)
	if err != nil {
		logger.Log.Fatalw("Failed to open game catalog", zap.String("game", cfg.GameKey), zap.Error(err))
	}
	return s
}

func newSession(cfg config.Config) (*session, error) {
	// Initialize database
	if err := db.InitDatabase(cfg.DatabasePath); err != nil {
		return nil, err
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	// Resolve the game and its saved state
	game, err := games.Lookup(cfg.GameKey)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cfg.ConfigDir, game.Key)
	if err != nil {
		return nil, err
	}
	lo, err := loadorder.Load(cfg.ConfigDir, game.Key)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, game: game, catalog: cat, loadOrder: lo}, nil
}

// dataPath is the game's data folder, or "" when the game isn't installed.
func (s *session) dataPath() string {
	p, err := s.game.DataPath(s.cfg.GamePath)
	if err != nil {
		return ""
	}
	return p
}

// secondaryPath is the game's folder inside the secondary mods folder, or "".
func (s *session) secondaryPath() string {
	if !s.game.SupportsSecondary() || s.cfg.SecondaryModsPath == "" {
		return ""
	}
	p, err := s.game.SecondaryPath(s.cfg.SecondaryModsPath)
	if err != nil {
		return ""
	}
	return p
}

// roots are the install roots, empty when the game can't be found.
func (s *session) roots() games.Roots {
	roots, err := catalog.ResolveRoots(s.game, s.cfg.GamePath, s.cfg.SecondaryModsPath)
	if err != nil {
		return games.Roots{}
	}
	return roots
}

func (s *session) fetcher() workshop.Fetcher {
	if s.cfg.SkipNetworkUpdate {
		return nil
	}
	f, err := workshop.NewCommandFetcher(s.cfg.WorkshopperPath, logger.Log)
	if err != nil {
		logger.Log.Debugw("Workshop details disabled", zap.Error(err))
		return nil
	}
	return f
}

func (s *session) rescanOptions() catalog.Options {
	return catalog.Options{
		GamePath:      s.cfg.GamePath,
		SecondaryBase: s.cfg.SecondaryModsPath,
		Reader:        pack.FileReader{},
		Fetcher:       s.fetcher(),
		SkipNetwork:   s.cfg.SkipNetworkUpdate,
		ConfigDir:     s.cfg.ConfigDir,
	}
}

// refreshOrder rebuilds the load order after a catalog change.
func (s *session) refreshOrder() {
	s.loadOrder.Update(s.catalog.Mods, s.dataPath())
}

// save writes the catalog and the load order and records the order in the
// history database.
func (s *session) save() error {
	if err := s.catalog.Save(s.cfg.ConfigDir); err != nil {
		return err
	}
	if err := s.loadOrder.Save(s.cfg.ConfigDir, s.game.Key); err != nil {
		return err
	}
	s.recordHistory()
	return nil
}

func (s *session) recordHistory() {
	if err := db.RecordLoadOrder(s.game.Key, s.loadOrder); err != nil {
		logger.Log.Warnw("Failed to record load order history", zap.String("game", s.game.Key), zap.Error(err))
	}
}

// mustSave saves or exits.
func (s *session) mustSave() {
	if err := s.save(); err != nil {
		logger.Log.Fatalw("Failed to save changes", zap.String("game", s.game.Key), zap.Error(err))
	}
}
