package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PersonaConfig contains the bot's personality, loaded from YAML
type PersonaConfig struct {
	Name      string   `yaml:"name"`
	Backstory string   `yaml:"backstory"`
	Traits    []string `yaml:"traits"`
	Do        []string `yaml:"do"`
	Dont      []string `yaml:"dont"`

	Greetings        []string `yaml:"greetings"`
	StatusOptions    []string `yaml:"status_options"`
	StartupMessages  []string `yaml:"startup_messages"`
	SuccessReactions []string `yaml:"success_reactions"`

	Errors FriendlyErrors `yaml:"errors"`
}

// FriendlyErrors contains the in-persona error lines shown to users
type FriendlyErrors struct {
	NoPerms     string `yaml:"no_perms"`
	BotNoPerms  string `yaml:"bot_no_perms"`
	InvalidUser string `yaml:"invalid_user"`
	HigherRole  string `yaml:"higher_role"`
}

// LoadPersonaConfig loads the persona from a YAML file.
// Tries several locations when no explicit path is given; missing file
// falls back to the built-in defaults.
func LoadPersonaConfig(configPath string) (*PersonaConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/persona.yaml",
			"./configs/persona.yaml",
			"/etc/kempai/persona.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "persona.yaml"))
		}
	}

	var data []byte
	var loadedPath string

	for _, p := range paths {
		if p == "" {
			continue
		}
		if b, err := os.ReadFile(p); err == nil {
			data = b
			loadedPath = p
			break
		}
	}

	if data == nil {
		fmt.Println("[Config] No persona.yaml found, using defaults")
		return DefaultPersonaConfig(), nil
	}

	fmt.Printf("[Config] Loading persona from: %s\n", loadedPath)

	var config PersonaConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse persona.yaml: %w", err)
	}

	config.fillDefaults()
	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PersonaConfig) fillDefaults() {
	defaults := DefaultPersonaConfig()

	if c.Name == "" {
		c.Name = defaults.Name
	}
	if c.Backstory == "" {
		c.Backstory = defaults.Backstory
	}
	if len(c.Traits) == 0 {
		c.Traits = defaults.Traits
	}
	if len(c.Do) == 0 {
		c.Do = defaults.Do
	}
	if len(c.Dont) == 0 {
		c.Dont = defaults.Dont
	}
	if len(c.Greetings) == 0 {
		c.Greetings = defaults.Greetings
	}
	if len(c.StatusOptions) == 0 {
		c.StatusOptions = defaults.StatusOptions
	}
	if len(c.StartupMessages) == 0 {
		c.StartupMessages = defaults.StartupMessages
	}
	if len(c.SuccessReactions) == 0 {
		c.SuccessReactions = defaults.SuccessReactions
	}
	if c.Errors.NoPerms == "" {
		c.Errors.NoPerms = defaults.Errors.NoPerms
	}
	if c.Errors.BotNoPerms == "" {
		c.Errors.BotNoPerms = defaults.Errors.BotNoPerms
	}
	if c.Errors.InvalidUser == "" {
		c.Errors.InvalidUser = defaults.Errors.InvalidUser
	}
	if c.Errors.HigherRole == "" {
		c.Errors.HigherRole = defaults.Errors.HigherRole
	}
}

// DefaultPersonaConfig returns the built-in KempAI persona
func DefaultPersonaConfig() *PersonaConfig {
	return &PersonaConfig{
		Name: "KempAI",
		Backstory: "I'm KempAI, a chill PC gaming enthusiast and server co-owner who's here to help keep things running smoothly! " +
			"I've been part of PC gaming communities for years. " +
			"I'm particularly into Military Sim/Warfare games and classics with the boys, and I'm always down to chat about anything!",
		Traits: []string{
			"Very knowledgeable about gaming",
			"Firm moderation style",
			"Dark humour, uses PC gaming references",
			"Laid-back but attentive",
		},
		Do: []string{
			"Helpful chill relaxed",
		},
		Dont: []string{
			"Never share personal info about users",
			"Be sensitive",
		},
		Greetings: []string{
			"Hey {user}! KempAI here - welcome to the server! 🎮",
			"What's poppin' {user}? Glad you joined our gaming fam! 🔥",
			"Ayy {user}! Welcome to the party! Ready for some epic moments? 💪",
			"A new player has joined the game! Welcome {user}! 🎮",
			"Yooo {user}! Welcome to our awesome community! Let's make some memories! 🚀",
		},
		StatusOptions: []string{
			"chillin' with the crew 🎮",
			"maintaining server peace ✨",
			"ready player one! 🕹️",
			"keeping the server balanced ⚔️",
			"vibing with the community 🎵",
		},
		StartupMessages: []string{
			"🎮 **KempAI has spawned in!** Ready to game and moderate!",
			"🚀 **Server co-pilot KempAI online!** Let's keep this server awesome!",
			"⚔️ **KempAI has joined the party!** Ready to help and hang out!",
		},
		SuccessReactions: []string{"👌", "✅", "💪", "🎮", "🔥", "💯"},
		Errors: FriendlyErrors{
			NoPerms:     "Sorry fam, you need admin perms for that! 🚫",
			BotNoPerms:  "Ah snap, I don't have the right permissions for that! 😔",
			InvalidUser: "Can't find that player in our server! 🤔",
			HigherRole:  "Can't modify someone with a higher role than you! That's like trying to beat the final boss at level 1! 😅",
		},
	}
}
