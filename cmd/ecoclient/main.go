// Command ecoclient 在命令行中驱动问题上报客户端的各个页面
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"eco-report/internal/api"
	"eco-report/internal/auth"
	"eco-report/internal/config"
	"eco-report/internal/pages"
	"eco-report/internal/permission"
	"eco-report/internal/session"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// command 子命令, 返回值为要输出的页面状态
type command struct {
	usage string
	run   func(ctx context.Context, env *pages.Env, args []string) (interface{}, error)
}

var commands = map[string]command{
	"send-code":   {"send-code --phone 手机号", sendCode},
	"login":       {"login --phone 手机号 --code 验证码", login},
	"wechat":      {"wechat --code 登录凭证 [--nickname 昵称]", wechatLogin},
	"home":        {"home", home},
	"me":          {"me", me},
	"profile":     {"profile [--nickname 昵称] [--avatar 头像]", profile},
	"logout":      {"logout", logout},
	"list":        {"list [--status 0|1] [--page N]", list},
	"detail":      {"detail 问题ID", detail},
	"fix":         {"fix 问题ID --photo 图片 [--desc 说明]", fix},
	"admin":       {"admin", admin},
	"communities": {"communities [--keyword 关键字] [--select 社区ID]", communities},
	"upload":      {"upload --community ID --type ID --title 标题 --location 位置 --photo 图片...", upload},
	"monitor":     {"monitor [--community ID] [--status 0|1] [--keyword 关键字] [--resolve 问题ID]", monitor},
}

func main() {
	global := pflag.NewFlagSet("ecoclient", pflag.ContinueOnError)
	configFile := global.StringP("config", "c", "", "配置文件路径")
	verbose := global.BoolP("verbose", "v", false, "输出调试日志")
	global.SetInterspersed(false)
	global.Usage = usage
	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	args := global.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "未知命令: %s\n", args[0])
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	sess := session.NewService(session.NewFileStore(cfg.Client.SessionFile), logger)
	manager := auth.NewManager(sess, permission.Default(), auth.LogNavigator{Logger: logger}, logger)
	env := pages.NewEnv(manager, api.New(cfg.Client, sess, logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if timeout := cfg.Client.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	state, err := cmd.run(ctx, env, args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	out.SetEscapeHTML(false)
	if err := out.Encode(state); err != nil {
		fmt.Fprintf(os.Stderr, "输出失败: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "用法: ecoclient [--config 文件] [--verbose] <命令> [参数]")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}
