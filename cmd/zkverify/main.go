// zkverify 命令行客户端：连接钱包，向链上验证合约提交零知识证明
package main

func main() {
	Execute()
}
