// 订单事件审计消费者：订阅 order.* 事件并落审计日志
// 下游支付/履约系统以同样的方式接入 minierp.exchange
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/CCDD2022/minierp/internal/mq"
	"github.com/CCDD2022/minierp/pkg/app"
	"github.com/CCDD2022/minierp/pkg/logger"
)

const (
	queueName = "order.events.audit"
	bindKey   = "order.*"
)

func main() {
	cfg := app.BootstrapApp()

	// 独立连接，避免影响主业务
	conn, ch, msgs, err := mq.NewConsumerChannel(&cfg.MQ, queueName, bindKey, mq.Exchange, true, cfg.MQ.ConsumerPrefetch)
	if err != nil {
		logger.Fatal("order event consumer init failed", "err", err)
	}
	defer mq.CloseConsumer(conn, ch)

	logger.Info("Order event consumer started", "queue", queueName, "bind_key", bindKey)

	// 打开审计日志文件
	f, err := os.OpenFile("order_events.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Fatal("open audit log file failed", "err", err)
	}
	defer f.Close()

	for d := range msgs {
		line := fmt.Sprintf("[%s] %s | MsgID: %s | Body: %s\n",
			time.Now().Format(time.DateTime),
			d.RoutingKey,
			d.MessageId,
			string(d.Body))

		if _, err := f.WriteString(line); err != nil {
			logger.Error("write audit log failed", "err", err)
		}

		logger.Info("order event received", "key", d.RoutingKey, "msg_id", d.MessageId)

		// 审计成功即确认 避免队列堆积
		_ = d.Ack(false)
	}
}
