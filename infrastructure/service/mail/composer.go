package mail

import (
	"fmt"
	"strings"

	"github.com/mintrail/mintrail/application/port/outbound"
)

const noticeSubject = "【NFT受領のお知らせ】送信手続きが完了しました"

// Composer builds recipient-facing notification drafts for completed sends.
// Drafts are returned to the operator for review and dispatch; this service
// does not deliver mail itself.
type Composer struct {
	senderName      string
	explorerBaseURL string
}

func NewComposer(senderName, explorerBaseURL string) *Composer {
	return &Composer{
		senderName:      senderName,
		explorerBaseURL: strings.TrimRight(explorerBaseURL, "/"),
	}
}

func (c *Composer) ComposeSendNotice(name, email, txHash, tokenIDs string) *outbound.NotificationDraft {
	body := fmt.Sprintf(`%s 様

この度はご購入いただき誠にありがとうございます。
%sです。

以下の通り、NFTの送信手続きが完了いたしました。
内容をご確認くださいますようお願い申し上げます。

━━━━━━━━━━━━━━━━━━━━━━━━━━
■ 送信内容
━━━━━━━━━━━━━━━━━━━━━━━━━━
[トークンID]:
%s

■ トランザクション詳細 (証明書)
%s/tx/%s

━━━━━━━━━━━━━━━━━━━━━━━━━━

ご不明な点がございましたら、お気軽にお問い合わせください。
今後ともよろしくお願いいたします。

--------------------------------------------------
%s
--------------------------------------------------
`, name, c.senderName, tokenIDs, c.explorerBaseURL, txHash, c.senderName)

	return &outbound.NotificationDraft{
		Email:   email,
		Subject: noticeSubject,
		Body:    body,
	}
}
