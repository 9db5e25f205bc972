package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLI_NoTTY_StdoutOnlyOneJSON(t *testing.T) {
	// 锁定对外契约：stdout 非 TTY 时只能输出一个 JSON 文档（日志/摘要必须走 stderr）。
	tmp := t.TempDir()
	cfg := filepath.Join(tmp, "mvx.json")
	body := `{"history":{"dir":` + strconvQuote(filepath.Join(tmp, "state")) + `},"log":{"level":"debug"}}`
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("写入配置失败：%v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("读取 cwd 失败：%v", err)
	}
	repoRoot := filepath.Clean(filepath.Join(wd, "..", ".."))

	cmd := exec.Command("go", "run", "./cmd/mvx", "history", "--config", cfg)
	cmd.Dir = repoRoot
	cmd.Env = append(os.Environ(), "TMDB_API_KEY=", "MVX_LOG_LEVEL=")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("命令执行失败：%v\nstderr=%s\nstdout=%s", err, stderr.String(), stdout.String())
	}

	dec := json.NewDecoder(bytes.NewReader(stdout.Bytes()))
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		t.Fatalf("stdout 不是合法 JSON：%v\nstdout=%q", err, stdout.String())
	}
	if dec.More() {
		t.Fatalf("stdout 只能包含一个 JSON 文档：%q", stdout.String())
	}
	if _, ok := doc["recent_searches"]; !ok {
		t.Fatalf("缺少 recent_searches：%v", doc)
	}
	if strings.Contains(stdout.String(), "level=") {
		t.Fatalf("日志不应出现在 stdout：%q", stdout.String())
	}
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
