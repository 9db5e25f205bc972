package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/SagarThayat/movie-explorer-app/internal/app"
	"github.com/SagarThayat/movie-explorer-app/internal/app/catalog"
	"github.com/SagarThayat/movie-explorer-app/internal/app/enrich"
	"github.com/SagarThayat/movie-explorer-app/internal/config"
	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	"github.com/SagarThayat/movie-explorer-app/internal/infra/logx"
	"github.com/SagarThayat/movie-explorer-app/internal/query"
	"github.com/SagarThayat/movie-explorer-app/internal/server"
	"github.com/SagarThayat/movie-explorer-app/internal/view"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// 对外稳定的错误码（stdout 非 TTY 时写入 error_code）。
const (
	errCodeInvalidInput   = "invalid_input"
	errCodeNotFound       = "not_found"
	errCodeUpstreamFailed = "upstream_failed"
	errCodeInternal       = "internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	if code != exitOK {
		os.Exit(code)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(stdout)
		return exitOK
	}

	ca, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", err)
		printUsage(stderr)
		return exitUsage
	}
	if ca.Help {
		printUsage(stdout)
		return exitOK
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "读取当前目录失败：%v\n", err)
		return exitFailure
	}

	eff, err := config.LoadEffective(cwd, ca.Config, getenv)
	if err != nil {
		return emitError(stdout, stderr, err)
	}

	logger, logCloser, err := logx.New(logx.Options{
		Level:      eff.Log.Level,
		Format:     eff.Log.Format,
		File:       eff.Log.File,
		MaxSizeMB:  eff.Log.MaxSizeMB,
		MaxBackups: eff.Log.MaxBackups,
	}, stderr)
	if err != nil {
		return emitError(stdout, stderr, &config.Error{Code: config.ErrCodeInvalid, Path: eff.ConfigFile, Err: err})
	}
	defer logCloser.Close()

	if ca.Command != cmdHistory {
		if err := eff.RequireCatalogKey(); err != nil {
			return emitError(stdout, stderr, err)
		}
	}

	var obs enrich.Observer
	if ca.Command != cmdServe && isTTY(stderr) {
		obs = newProgressUI(stderr)
	}

	deps, err := wire(ctx, eff, logger, obs)
	if err != nil {
		return emitError(stdout, stderr, err)
	}
	defer deps.Close()

	return dispatch(ctx, ca, eff, deps, logger, stdout, stderr)
}

func dispatch(ctx context.Context, ca cliArgs, eff config.EffectiveConfig, deps *dependencies, logger *slog.Logger, stdout, stderr io.Writer) int {
	ex := deps.Explorer

	switch ca.Command {
	case cmdTrending:
		res, err := ex.Trending(ctx)
		return emitList(stdout, stderr, ex, res, err)

	case cmdSearch:
		page, err := query.ParsePage(ca.Page)
		if err != nil {
			return emitError(stdout, stderr, err)
		}
		res, err := ex.Search(ctx, strings.Join(ca.Positional, " "), page)
		return emitList(stdout, stderr, ex, res, err)

	case cmdDetails:
		d, err := ex.Details(ctx, ca.Positional[0])
		if err != nil {
			return emitError(stdout, stderr, err)
		}
		if isTTY(stdout) {
			view.WriteDetailsText(stdout, d)
			return exitOK
		}
		writeJSON(stdout, d)
		return exitOK

	case cmdHistory:
		if ca.Clear {
			ex.ClearHistory(ctx)
		}
		terms := ex.RecentSearches()
		if isTTY(stdout) {
			view.WriteHistoryText(stdout, terms)
			return exitOK
		}
		writeJSON(stdout, historyDoc{RecentSearches: terms})
		return exitOK

	case cmdServe:
		srv := server.New(ex, logger)
		if err := srv.Run(ctx, eff.ServerAddr); err != nil {
			fmt.Fprintf(stderr, "http 服务退出：%v\n", err)
			return exitFailure
		}
		return exitOK
	}

	fmt.Fprintf(stderr, "未知命令：%q\n", ca.Command)
	return exitUsage
}

type historyDoc struct {
	RecentSearches []string `json:"recent_searches"`
}

type errorDoc struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

func emitList(stdout, stderr io.Writer, ex *app.Explorer, res domain.ListResult, err error) int {
	if err != nil {
		var ue *catalog.UpstreamError
		if errors.As(err, &ue) && isTTY(stdout) {
			// 终端下仍然展示空列表 + 提示，与页面行为一致。
			empty := domain.ListResult{Kind: ue.Op, Page: 1, TotalPages: 1}
			empty.Finalize()
			view.WriteListText(stdout, empty, view.ListOptions{Notice: ue.Error()})
			return exitFailure
		}
		return emitError(stdout, stderr, err)
	}

	if isTTY(stdout) {
		view.WriteListText(stdout, res, view.ListOptions{Recent: ex.RecentSearches()})
		return exitOK
	}
	writeJSON(stdout, res)
	fmt.Fprintf(stderr, "完成：movies=%d with_trailer=%d with_extra_rating=%d page=%d/%d\n",
		res.Summary.Movies, res.Summary.WithTrailer, res.Summary.WithExtraRating, res.Page, res.TotalPages,
	)
	return exitOK
}

// emitError 输出错误并返回退出码。stdout 非 TTY 时，stdout 仍然只有一个 JSON 文档。
func emitError(stdout, stderr io.Writer, err error) int {
	code, exit := classify(err)
	if !isTTY(stdout) {
		writeJSON(stdout, errorDoc{Error: err.Error(), ErrorCode: code})
	}
	fmt.Fprintf(stderr, "%s: %v\n", code, err)
	return exit
}

func classify(err error) (string, int) {
	var (
		ie *query.InvalidError
		ue *catalog.UpstreamError
	)
	switch {
	case config.Code(err) != "":
		return config.Code(err), exitFailure
	case errors.As(err, &ie):
		return errCodeInvalidInput, exitUsage
	case errors.Is(err, catalog.ErrNotFound):
		return errCodeNotFound, exitFailure
	case errors.As(err, &ue):
		return errCodeUpstreamFailed, exitFailure
	default:
		return errCodeInternal, exitFailure
	}
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

const (
	cmdTrending = "trending"
	cmdSearch   = "search"
	cmdDetails  = "details"
	cmdHistory  = "history"
	cmdServe    = "serve"
)

type cliArgs struct {
	Command    string
	Positional []string
	Page       string
	Clear      bool
	Help       bool
	Config     config.CLIArgs
}

// parseArgs 解析 "<command> [args] [flags]"；全局参数可以出现在命令之后的任意位置。
func parseArgs(args []string) (cliArgs, error) {
	ca := cliArgs{Command: args[0]}
	switch ca.Command {
	case cmdTrending, cmdSearch, cmdDetails, cmdHistory, cmdServe:
	default:
		return cliArgs{}, fmt.Errorf("未知命令：%q", ca.Command)
	}

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		name, val, hasVal := strings.Cut(a, "=")
		// 只有 flag 形式才是帮助；位置参数里的 "help" 仍是搜索词。
		if a == "-h" || a == "--help" {
			ca.Help = true
			continue
		}
		if !strings.HasPrefix(a, "--") {
			ca.Positional = append(ca.Positional, a)
			continue
		}

		needValue := func() (string, error) {
			if hasVal {
				return val, nil
			}
			if i+1 >= len(rest) {
				return "", fmt.Errorf("%s 需要一个值", name)
			}
			i++
			return rest[i], nil
		}

		switch name {
		case "--config":
			v, err := needValue()
			if err != nil {
				return cliArgs{}, err
			}
			ca.Config.ConfigPath = v
		case "--log-level":
			v, err := needValue()
			if err != nil {
				return cliArgs{}, err
			}
			ca.Config.LogLevel, ca.Config.LogLevelSet = v, true
		case "--concurrency":
			v, err := needValue()
			if err != nil {
				return cliArgs{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return cliArgs{}, fmt.Errorf("--concurrency 必须是整数，实际是 %q", v)
			}
			ca.Config.Concurrency, ca.Config.ConcurrencySet = n, true
		case "--page":
			if ca.Command != cmdSearch {
				return cliArgs{}, fmt.Errorf("--page 只能用于 search")
			}
			v, err := needValue()
			if err != nil {
				return cliArgs{}, err
			}
			ca.Page = v
		case "--clear":
			if ca.Command != cmdHistory {
				return cliArgs{}, fmt.Errorf("--clear 只能用于 history")
			}
			if hasVal {
				return cliArgs{}, fmt.Errorf("--clear 不接受值")
			}
			ca.Clear = true
		case "--addr":
			if ca.Command != cmdServe {
				return cliArgs{}, fmt.Errorf("--addr 只能用于 serve")
			}
			v, err := needValue()
			if err != nil {
				return cliArgs{}, err
			}
			ca.Config.Addr, ca.Config.AddrSet = v, true
		default:
			return cliArgs{}, fmt.Errorf("未知参数 %q", a)
		}
	}
	if ca.Help {
		return ca, nil
	}

	switch ca.Command {
	case cmdSearch:
		if len(ca.Positional) == 0 {
			return cliArgs{}, fmt.Errorf("search 需要搜索词")
		}
	case cmdDetails:
		if len(ca.Positional) != 1 {
			return cliArgs{}, fmt.Errorf("details 需要且只需要一个 id 或链接")
		}
	default:
		if len(ca.Positional) > 0 {
			return cliArgs{}, fmt.Errorf("%s 不接受位置参数：%q", ca.Command, ca.Positional[0])
		}
	}
	return ca, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  mvx trending
  mvx search <term> [--page N]
  mvx details <id|tmdb:id|url>
  mvx history [--clear]
  mvx serve [--addr :8080]

全局参数：
  --config <file>     配置文件（默认 ./mvx.json，可选）
  --log-level <lvl>   debug|info|warn|error
  --concurrency <n>   同时 enrich 的电影数量（0 表示不限制）
  -h, --help          显示帮助

环境变量：
  TMDB_API_KEY, OMDB_API_KEY, YOUTUBE_API_KEY, MVX_LOG_LEVEL

stdout 非 TTY 时只输出一个 JSON 文档；日志与进度写到 stderr。
`)
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
