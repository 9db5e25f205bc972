package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/SagarThayat/movie-explorer-app/internal/infra/kv"
	"github.com/SagarThayat/movie-explorer-app/internal/provider"
)

const (
	// ErrCodeNotFound 表示 --config 指定的文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingKey 表示当前命令需要的 API key 没有配置。
	ErrCodeMissingKey = "config_missing_key"
)

// FileName 是工作目录下自动发现的配置文件名。
const FileName = "mvx.json"

const (
	EnvTMDBKey    = "TMDB_API_KEY"
	EnvOMDBKey    = "OMDB_API_KEY"
	EnvYouTubeKey = "YOUTUBE_API_KEY"
	EnvLogLevel   = "MVX_LOG_LEVEL"
)

const (
	DefaultLanguage       = "en-US"
	DefaultTimeoutSeconds = 20
	DefaultServerAddr     = ":8080"
	DefaultHistoryDirName = ".mvx"
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxBackups  = 3
)

// CLIArgs 是 CLI 暴露的覆盖项；*Set 保留“是否显式指定”的信息，
// 例如 --concurrency=0 必须能覆盖配置文件里的 concurrency=8。
type CLIArgs struct {
	ConfigPath string

	Concurrency    int
	ConcurrencySet bool

	LogLevel    string
	LogLevelSet bool

	Addr    string
	AddrSet bool
}

// FileConfig 对应 mvx.json 的解析结构。所有字段可选。
type FileConfig struct {
	TMDBAPIKey     string        `json:"tmdb_api_key"`
	OMDBAPIKey     string        `json:"omdb_api_key"`
	YouTubeAPIKey  string        `json:"youtube_api_key"`
	Language       string        `json:"language"`
	Concurrency    *int          `json:"concurrency"`
	TrailerSources []string      `json:"trailer_sources"`
	Proxy          *ProxyConfig  `json:"proxy"`
	HTTP           HTTPConfig    `json:"http"`
	BaseURLs       BaseURLConfig `json:"base_urls"`
	History        HistoryConfig `json:"history"`
	Log            LogConfig     `json:"log"`
	Server         ServerConfig  `json:"server"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

type HTTPConfig struct {
	TimeoutSeconds *int `json:"timeout_seconds"`
	RetryMax       int  `json:"retry_max"`
}

type BaseURLConfig struct {
	TMDB    string `json:"tmdb"`
	OMDB    string `json:"omdb"`
	YouTube string `json:"youtube"`
}

type HistoryConfig struct {
	Backend string `json:"backend"`
	Dir     string `json:"dir"`
	DSN     string `json:"dsn"`
}

type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
}

// EffectiveConfig 是合并并规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// ConfigFile 是实际读取的配置文件；没有读取任何文件时为空。
	ConfigFile string

	TMDBAPIKey    string
	OMDBAPIKey    string
	YouTubeAPIKey string

	Language       string
	Concurrency    int      `validate:"gte=0,lte=64"`
	TrailerSources []string `validate:"min=1,max=2,dive,oneof=youtube tmdb"`

	ProxyURL    string `validate:"omitempty,url"`
	HTTPTimeout time.Duration
	RetryMax    int `validate:"gte=0,lte=10"`

	TMDBBaseURL    string `validate:"omitempty,http_url"`
	OMDBBaseURL    string `validate:"omitempty,http_url"`
	YouTubeBaseURL string `validate:"omitempty,http_url"`

	History HistoryOptions
	Log     LogOptions

	ServerAddr string `validate:"required"`
}

type HistoryOptions struct {
	Backend string `validate:"oneof=file sqlite postgres"`
	Dir     string
	DSN     string `validate:"required_if=Backend postgres"`
}

type LogOptions struct {
	Level      string `validate:"oneof=debug info warn error"`
	Format     string `validate:"oneof=text json"`
	File       string
	MaxSizeMB  int `validate:"gte=0"`
	MaxBackups int `validate:"gte=0"`
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingKey:
		if e.Err != nil {
			return fmt.Sprintf("%s：缺少 %v（环境变量或配置文件）", e.Code, e.Err)
		}
		return fmt.Sprintf("%s：缺少 API key", e.Code)
	case ErrCodeInvalid:
		if e.Path == "" {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadEffective 发现并读取配置文件，再与环境变量、CLI 参数合并为最终配置。
//
// 发现规则：
// 1) CLI 提供 --config：必须存在
// 2) 否则尝试 <cwd>/mvx.json（可选）
//
// 覆盖优先级：CLI > env > config > 默认。getenv 为 nil 时使用 os.Getenv。
func LoadEffective(cwd string, cli CLIArgs, getenv func(string) string) (EffectiveConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var (
		cfgPath string
		fc      FileConfig
		exists  bool
	)
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
	} else {
		cfgPath = filepath.Join(cwdAbs, FileName)
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	}
	if !exists {
		cfgPath = ""
	}

	eff, err := merge(cwdAbs, cli, getenv, fc, cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	return eff, nil
}

func merge(cwd string, cli CLIArgs, getenv func(string) string, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	eff := EffectiveConfig{
		ConfigFile:    cfgPath,
		TMDBAPIKey:    pick(getenv(EnvTMDBKey), fc.TMDBAPIKey),
		OMDBAPIKey:    pick(getenv(EnvOMDBKey), fc.OMDBAPIKey),
		YouTubeAPIKey: pick(getenv(EnvYouTubeKey), fc.YouTubeAPIKey),

		RetryMax: fc.HTTP.RetryMax,

		TMDBBaseURL:    strings.TrimSpace(fc.BaseURLs.TMDB),
		OMDBBaseURL:    strings.TrimSpace(fc.BaseURLs.OMDB),
		YouTubeBaseURL: strings.TrimSpace(fc.BaseURLs.YouTube),
	}

	lang, err := normalizeLanguage(fc.Language)
	if err != nil {
		return EffectiveConfig{}, err
	}
	eff.Language = lang

	// concurrency：CLI > config > 默认 0（不限制）
	if cli.ConcurrencySet {
		eff.Concurrency = cli.Concurrency
	} else if fc.Concurrency != nil {
		eff.Concurrency = *fc.Concurrency
	}

	eff.TrailerSources = provider.DefaultTrailerOrder
	if len(fc.TrailerSources) > 0 {
		eff.TrailerSources = make([]string, 0, len(fc.TrailerSources))
		for _, s := range fc.TrailerSources {
			eff.TrailerSources = append(eff.TrailerSources, strings.ToLower(strings.TrimSpace(s)))
		}
		if err := provider.ValidateOrder(eff.TrailerSources); err != nil {
			return EffectiveConfig{}, err
		}
	}
	eff.TrailerSources = append([]string(nil), eff.TrailerSources...)

	if fc.Proxy != nil {
		eff.ProxyURL = strings.TrimSpace(fc.Proxy.URL)
	}

	timeout := DefaultTimeoutSeconds
	if fc.HTTP.TimeoutSeconds != nil {
		timeout = *fc.HTTP.TimeoutSeconds
	}
	if timeout < 1 || timeout > 300 {
		return EffectiveConfig{}, fmt.Errorf("http.timeout_seconds 必须在 [1, 300] 内，实际是 %d", timeout)
	}
	eff.HTTPTimeout = time.Duration(timeout) * time.Second

	eff.History = HistoryOptions{
		Backend: strings.ToLower(strings.TrimSpace(fc.History.Backend)),
		Dir:     strings.TrimSpace(fc.History.Dir),
		DSN:     strings.TrimSpace(fc.History.DSN),
	}
	if eff.History.Backend == "" {
		eff.History.Backend = kv.BackendFile
	}
	if eff.History.Dir == "" {
		eff.History.Dir = DefaultHistoryDirName
	}
	eff.History.Dir = absCleanFrom(cwd, eff.History.Dir)
	if eff.History.Backend == kv.BackendSQLite {
		if eff.History.DSN == "" {
			eff.History.DSN = filepath.Join(eff.History.Dir, "history.db")
		} else {
			eff.History.DSN = absCleanFrom(cwd, eff.History.DSN)
		}
	}

	// log.level：CLI > env > config > 默认 info
	level := pick(getenv(EnvLogLevel), fc.Log.Level)
	if cli.LogLevelSet {
		level = cli.LogLevel
	}
	if level == "" {
		level = "info"
	}
	eff.Log = LogOptions{
		Level:      strings.ToLower(strings.TrimSpace(level)),
		Format:     strings.ToLower(strings.TrimSpace(fc.Log.Format)),
		File:       strings.TrimSpace(fc.Log.File),
		MaxSizeMB:  fc.Log.MaxSizeMB,
		MaxBackups: fc.Log.MaxBackups,
	}
	if eff.Log.Level == "warning" {
		eff.Log.Level = "warn"
	}
	if eff.Log.Format == "" {
		eff.Log.Format = "text"
	}
	if eff.Log.File != "" {
		eff.Log.File = absCleanFrom(cwd, eff.Log.File)
		if eff.Log.MaxSizeMB == 0 {
			eff.Log.MaxSizeMB = DefaultLogMaxSizeMB
		}
		if eff.Log.MaxBackups == 0 {
			eff.Log.MaxBackups = DefaultLogMaxBackups
		}
	}

	// server.addr：CLI > config > 默认
	eff.ServerAddr = pick(fc.Server.Addr, DefaultServerAddr)
	if cli.AddrSet {
		eff.ServerAddr = strings.TrimSpace(cli.Addr)
	}

	if err := validate.Struct(eff); err != nil {
		return EffectiveConfig{}, describeValidation(err)
	}
	if _, _, err := net.SplitHostPort(eff.ServerAddr); err != nil {
		return EffectiveConfig{}, fmt.Errorf("server.addr 无效：%q", eff.ServerAddr)
	}
	return eff, nil
}

// RequireCatalogKey 在需要访问 catalog 的命令前调用。
func (e EffectiveConfig) RequireCatalogKey() error {
	if strings.TrimSpace(e.TMDBAPIKey) == "" {
		return &Error{Code: ErrCodeMissingKey, Path: e.ConfigFile, Err: errors.New(EnvTMDBKey)}
	}
	return nil
}

// ActiveTrailerSources 去掉没有配置 key 的 youtube；全部被去掉时保留原顺序（由解析链降级处理）。
func (e EffectiveConfig) ActiveTrailerSources() []string {
	out := make([]string, 0, len(e.TrailerSources))
	for _, s := range e.TrailerSources {
		if s == provider.SourceYouTube && strings.TrimSpace(e.YouTubeAPIKey) == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return append([]string(nil), e.TrailerSources...)
	}
	return out
}

func normalizeLanguage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLanguage, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("language 无效：%q", s)
	}
	return tag.String(), nil
}

func describeValidation(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		ns := strings.TrimPrefix(fe.Namespace(), "EffectiveConfig.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s 不满足 %s=%s（实际 %v）", ns, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s 不满足 %s（实际 %v）", ns, fe.Tag(), fe.Value()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// pick 返回第一个非空白的值。
func pick(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
